package expense

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListFilter narrows and paginates expense listings. Nil/zero fields are
// ignored. Amount bounds are in minor units.
type ListFilter struct {
	Status            ApprovalStatus
	EmployeeUUID      *uuid.UUID
	MinAmountCents    *int64
	MaxAmountCents    *int64
	Currency          string
	SearchDescription string
	Page              int
	PageSize          int
}

// Repository defines expense persistence operations
type Repository interface {
	Create(ctx context.Context, exp *Expense) error

	// Exists reports whether an expense with the given UUID is already stored
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*Expense, error)

	// List returns one page of expenses plus the total match count
	List(ctx context.Context, filter ListFilter) ([]Expense, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ApprovalStatus) error
	WithTx(tx pgx.Tx) Repository
}

// ErrExpenseNotFound indicates missing expense
type ErrExpenseNotFound struct {
	ExpenseUUID uuid.UUID
}

func (e ErrExpenseNotFound) Error() string {
	return "expense not found: " + e.ExpenseUUID.String()
}

// ErrInvalidStatus indicates a status value outside the approval enum
type ErrInvalidStatus struct {
	Status string
}

func (e ErrInvalidStatus) Error() string {
	return "invalid status: " + e.Status + ", must be PENDING, APPROVED or DECLINED"
}

// ErrAlreadyProcessed indicates an approve/decline attempt on a settled expense
type ErrAlreadyProcessed struct {
	ExpenseUUID uuid.UUID
	Status      ApprovalStatus
}

func (e ErrAlreadyProcessed) Error() string {
	return "expense " + e.ExpenseUUID.String() + " has already been processed: " + string(e.Status)
}
