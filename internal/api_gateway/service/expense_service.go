package service

import (
	"context"

	"github.com/cashcog-expense-manager/internal/domain/expense"
	"github.com/google/uuid"
)

// ExpenseServiceImpl implements the ExpenseService interface
type ExpenseServiceImpl struct {
	expenseRepo expense.Repository
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo expense.Repository) ExpenseService {
	return &ExpenseServiceImpl{
		expenseRepo: expenseRepo,
	}
}

// ListExpenses validates the status filter, converts the amount bounds to
// minor units and returns the matching page
func (s *ExpenseServiceImpl) ListExpenses(ctx context.Context, query ListExpensesQuery) ([]expense.Expense, int, error) {
	var status expense.ApprovalStatus
	if query.Status != "" {
		status = expense.ApprovalStatus(query.Status)
		if !status.IsValid() {
			return nil, 0, expense.ErrInvalidStatus{Status: query.Status}
		}
	}

	filter := expense.ListFilter{
		Status:            status,
		EmployeeUUID:      query.EmployeeUUID,
		Currency:          query.Currency,
		SearchDescription: query.SearchDescription,
		Page:              query.Page,
		PageSize:          query.PageSize,
	}
	if query.MinAmount != nil {
		cents := expense.ToCents(*query.MinAmount)
		filter.MinAmountCents = &cents
	}
	if query.MaxAmount != nil {
		cents := expense.ToCents(*query.MaxAmount)
		filter.MaxAmountCents = &cents
	}

	return s.expenseRepo.List(ctx, filter)
}

// GetExpense retrieves an expense by its UUID, returns ErrExpenseNotFound if not found
func (s *ExpenseServiceImpl) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	return s.expenseRepo.GetByUUID(ctx, id)
}

// UpdateStatus settles a pending expense. Only PENDING expenses may be
// approved or declined and a settled expense never changes again.
func (s *ExpenseServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status expense.ApprovalStatus) (*expense.Expense, error) {
	if !status.IsTerminal() {
		return nil, expense.ErrInvalidStatus{Status: string(status)}
	}

	exp, err := s.expenseRepo.GetByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	if exp.Status != expense.StatusPending {
		return nil, expense.ErrAlreadyProcessed{ExpenseUUID: id, Status: exp.Status}
	}

	if err := s.expenseRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	exp.Status = status
	return exp, nil
}
