package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cashcog-expense-manager/internal/api_gateway/service"
	"github.com/cashcog-expense-manager/internal/domain/expense"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExpenseHandler handles HTTP requests for expense review operations
type ExpenseHandler struct {
	expenseService service.ExpenseService
	logger         *slog.Logger
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(logger *slog.Logger, expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

// List returns a filtered, paginated page of expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	var params ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid list query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	query := service.ListExpensesQuery{
		Status:            params.Status,
		MinAmount:         params.MinAmount,
		MaxAmount:         params.MaxAmount,
		Currency:          params.Currency,
		SearchDescription: params.SearchDescription,
		Page:              params.Page,
		PageSize:          params.PageSize,
	}
	if params.EmployeeUUID != "" {
		id, err := uuid.Parse(params.EmployeeUUID)
		if err != nil {
			RespondBadRequest(c, "Invalid employee UUID")
			return
		}
		query.EmployeeUUID = &id
	}

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), query)
	if err != nil {
		var invalidStatusErr expense.ErrInvalidStatus
		if errors.As(err, &invalidStatusErr) {
			RespondBadRequest(c, invalidStatusErr.Error())
			return
		}
		h.logger.Error("Failed to list expenses", "error", err)
		RespondInternalError(c)
		return
	}

	items := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		items = append(items, mapExpenseToResponse(&expenses[i]))
	}

	RespondWithPaginatedData(c, http.StatusOK, ExpenseListResponse{Expenses: items}, params.Page, params.PageSize, total)
}

// GetByUUID retrieves an expense by its UUID, returning 404 if not found
func (h *ExpenseHandler) GetByUUID(c *gin.Context) {
	idParam := c.Param("uuid")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid expense UUID", "uuid", idParam, "error", err)
		RespondBadRequest(c, "Invalid expense UUID")
		return
	}

	exp, err := h.expenseService.GetExpense(c.Request.Context(), id)
	if err != nil {
		var notFoundErr expense.ErrExpenseNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Expense not found")
			return
		}
		h.logger.Error("Failed to get expense", "uuid", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapExpenseToResponse(exp))
}

// UpdateStatus approves or declines a pending expense
func (h *ExpenseHandler) UpdateStatus(c *gin.Context) {
	idParam := c.Param("uuid")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid expense UUID", "uuid", idParam, "error", err)
		RespondBadRequest(c, "Invalid expense UUID")
		return
	}

	var req UpdateExpenseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	exp, err := h.expenseService.UpdateStatus(c.Request.Context(), id, expense.ApprovalStatus(req.Status))
	if err != nil {
		var invalidStatusErr expense.ErrInvalidStatus
		var notFoundErr expense.ErrExpenseNotFound
		var alreadyProcessedErr expense.ErrAlreadyProcessed
		switch {
		case errors.As(err, &invalidStatusErr):
			RespondBadRequest(c, invalidStatusErr.Error())
		case errors.As(err, &notFoundErr):
			RespondNotFound(c, "Expense not found")
		case errors.As(err, &alreadyProcessedErr):
			h.logger.Warn("Attempt to settle an already processed expense", "uuid", idParam, "status", alreadyProcessedErr.Status)
			RespondConflict(c, alreadyProcessedErr.Error())
		default:
			h.logger.Error("Failed to update expense status", "uuid", idParam, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapExpenseToResponse(exp))
}

// mapExpenseToResponse maps an expense entity to an expense response DTO
func mapExpenseToResponse(exp *expense.Expense) ExpenseResponse {
	return ExpenseResponse{
		UUID:         exp.UUID.String(),
		Description:  exp.Description,
		CreatedAt:    exp.CreatedAt.Format(time.RFC3339),
		Amount:       exp.MajorUnits(),
		Currency:     exp.Currency,
		EmployeeUUID: exp.EmployeeUUID.String(),
		Status:       string(exp.Status),
		IngestedAt:   exp.IngestedAt.Format(time.RFC3339),
	}
}
