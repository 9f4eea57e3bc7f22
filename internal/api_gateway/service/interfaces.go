package service

import (
	"context"

	"github.com/cashcog-expense-manager/internal/domain/expense"
	"github.com/google/uuid"
)

// ListExpensesQuery carries the validated filter and pagination inputs of a
// list request. Amount bounds are in major units as received from the client.
type ListExpensesQuery struct {
	Status            string
	EmployeeUUID      *uuid.UUID
	MinAmount         *float64
	MaxAmount         *float64
	Currency          string
	SearchDescription string
	Page              int
	PageSize          int
}

// ExpenseService defines the interface for expense review operations
type ExpenseService interface {
	// ListExpenses returns one page of expenses plus the total match count
	// Returns ErrInvalidStatus when the status filter is outside the enum
	ListExpenses(ctx context.Context, query ListExpensesQuery) ([]expense.Expense, int, error)

	// GetExpense retrieves an expense by its UUID
	// Returns ErrExpenseNotFound if the expense doesn't exist
	GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error)

	// UpdateStatus settles a pending expense as APPROVED or DECLINED
	// Returns ErrInvalidStatus for any other target status,
	// ErrExpenseNotFound if absent and ErrAlreadyProcessed if already settled
	UpdateStatus(ctx context.Context, id uuid.UUID, status expense.ApprovalStatus) (*expense.Expense, error)
}
