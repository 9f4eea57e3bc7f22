package handler

// ListExpensesParams represents the query parameters of the expense list endpoint.
// Amounts are in major units.
type ListExpensesParams struct {
	Status            string   `form:"status"`
	EmployeeUUID      string   `form:"employee_uuid" binding:"omitempty,uuid"`
	MinAmount         *float64 `form:"min_amount"`
	MaxAmount         *float64 `form:"max_amount"`
	Currency          string   `form:"currency"`
	SearchDescription string   `form:"search_description"`
	Page              int      `form:"page,default=1" binding:"min=1"`
	PageSize          int      `form:"page_size,default=10" binding:"min=1,max=100"`
}

// UpdateExpenseStatusRequest represents a request to settle a pending expense
type UpdateExpenseStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED DECLINED"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	UUID         string  `json:"uuid"`
	Description  string  `json:"description"`
	CreatedAt    string  `json:"created_at"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	EmployeeUUID string  `json:"employee_uuid"`
	Status       string  `json:"status"`
	IngestedAt   string  `json:"ingested_at"`
}

// ExpenseListResponse represents a list of expenses in API responses
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}
