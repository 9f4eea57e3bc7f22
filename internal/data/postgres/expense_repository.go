package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cashcog-expense-manager/internal/domain/expense"
	"github.com/cashcog-expense-manager/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ExpenseRepository implements the expense.Repository interface for PostgreSQL
type ExpenseRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewExpenseRepository creates a new PostgreSQL expense repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewExpenseRepository(logger *slog.Logger, db *persistence.PostgresDB) expense.Repository {
	return &ExpenseRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls
func (r *ExpenseRepository) WithTx(tx pgx.Tx) expense.Repository {
	return &ExpenseRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new expense in the database. A duplicate UUID surfaces as
// a unique-constraint violation from the driver.
func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	query := `
		INSERT INTO expenses (uuid, description, created_at, amount_cents, currency, employee_uuid, status, ingested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		exp.UUID,
		exp.Description,
		exp.CreatedAt,
		exp.AmountCents,
		exp.Currency,
		exp.EmployeeUUID,
		exp.Status,
		exp.IngestedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// Exists reports whether an expense with the given UUID is already stored
func (r *ExpenseRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM expenses WHERE uuid = $1)`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error("Failed to check expense existence", "uuid", id.String(), "error", err)
		return false, fmt.Errorf("failed to check expense existence: %w", err)
	}

	return exists, nil
}

// GetByUUID retrieves an expense by its UUID
func (r *ExpenseRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `
		SELECT uuid, description, created_at, amount_cents, currency, employee_uuid, status, ingested_at
		FROM expenses
		WHERE uuid = $1
	`

	var exp expense.Expense
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&exp.UUID,
		&exp.Description,
		&exp.CreatedAt,
		&exp.AmountCents,
		&exp.Currency,
		&exp.EmployeeUUID,
		&exp.Status,
		&exp.IngestedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, expense.ErrExpenseNotFound{ExpenseUUID: id}
		}
		r.logger.Error("Failed to get expense", "uuid", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return &exp, nil
}

// List returns one page of expenses matching the filter plus the total match
// count. Results are ordered newest first. A page past the end is clamped to
// the last available page.
func (r *ExpenseRepository) List(ctx context.Context, filter expense.ListFilter) ([]expense.Expense, int, error) {
	where, args := buildExpenseFilter(filter)

	countQuery := `SELECT COUNT(*) FROM expenses` + where

	var total int
	if err := r.querier.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count expenses", "error", err)
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	if totalPages := (total + pageSize - 1) / pageSize; totalPages > 0 && page > totalPages {
		page = totalPages
	}

	listArgs := append(args, pageSize, (page-1)*pageSize)
	listQuery := fmt.Sprintf(`
		SELECT uuid, description, created_at, amount_cents, currency, employee_uuid, status, ingested_at
		FROM expenses%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := r.querier.Query(ctx, listQuery, listArgs...)
	if err != nil {
		r.logger.Error("Failed to list expenses", "error", err)
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]expense.Expense, 0, pageSize)
	for rows.Next() {
		var exp expense.Expense
		if err := rows.Scan(
			&exp.UUID,
			&exp.Description,
			&exp.CreatedAt,
			&exp.AmountCents,
			&exp.Currency,
			&exp.EmployeeUUID,
			&exp.Status,
			&exp.IngestedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read expense rows: %w", err)
	}

	return expenses, total, nil
}

// UpdateStatus sets the approval status of an expense
func (r *ExpenseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status expense.ApprovalStatus) error {
	query := `
		UPDATE expenses
		SET status = $1
		WHERE uuid = $2
	`

	result, err := r.querier.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update expense status", "uuid", id.String(), "error", err)
		return fmt.Errorf("failed to update expense status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return expense.ErrExpenseNotFound{ExpenseUUID: id}
	}

	return nil
}

// buildExpenseFilter translates a ListFilter into a WHERE clause with
// positional arguments
func buildExpenseFilter(filter expense.ListFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.EmployeeUUID != nil {
		args = append(args, *filter.EmployeeUUID)
		conds = append(conds, fmt.Sprintf("employee_uuid = $%d", len(args)))
	}
	if filter.MinAmountCents != nil {
		args = append(args, *filter.MinAmountCents)
		conds = append(conds, fmt.Sprintf("amount_cents >= $%d", len(args)))
	}
	if filter.MaxAmountCents != nil {
		args = append(args, *filter.MaxAmountCents)
		conds = append(conds, fmt.Sprintf("amount_cents <= $%d", len(args)))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		conds = append(conds, fmt.Sprintf("UPPER(currency) = UPPER($%d)", len(args)))
	}
	if filter.SearchDescription != "" {
		args = append(args, "%"+filter.SearchDescription+"%")
		conds = append(conds, fmt.Sprintf("description ILIKE $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
