// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the expense manager.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cashcog-expense-manager/internal/domain/employee"
	"github.com/cashcog-expense-manager/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EmployeeRepository implements the employee.Repository interface for PostgreSQL
type EmployeeRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewEmployeeRepository creates a new PostgreSQL employee repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewEmployeeRepository(logger *slog.Logger, db *persistence.PostgresDB) employee.Repository {
	return &EmployeeRepository{
		querier: db.Pool(), // Initialize with the pool
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls. The returned repository will use the provided
// transaction for all database operations.
func (r *EmployeeRepository) WithTx(tx pgx.Tx) employee.Repository {
	return &EmployeeRepository{
		querier: tx, // Use the transaction
		logger:  r.logger,
	}
}

// Create stores a new employee in the database
func (r *EmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	query := `
		INSERT INTO employees (uuid, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.querier.Exec(ctx, query,
		emp.UUID,
		emp.FirstName,
		emp.LastName,
		emp.CreatedAt,
		emp.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create employee", "uuid", emp.UUID.String(), "error", err)
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// GetByUUID retrieves an employee by its UUID
func (r *EmployeeRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	query := `
		SELECT uuid, first_name, last_name, created_at, updated_at
		FROM employees
		WHERE uuid = $1
	`

	var emp employee.Employee
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&emp.UUID,
		&emp.FirstName,
		&emp.LastName,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound{EmployeeUUID: id}
		}
		r.logger.Error("Failed to get employee", "uuid", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return &emp, nil
}

// UpdateNames rewrites the employee's names in place
func (r *EmployeeRepository) UpdateNames(ctx context.Context, id uuid.UUID, firstName, lastName string) error {
	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, updated_at = NOW()
		WHERE uuid = $3
	`

	result, err := r.querier.Exec(ctx, query, firstName, lastName, id)
	if err != nil {
		r.logger.Error("Failed to update employee names", "uuid", id.String(), "error", err)
		return fmt.Errorf("failed to update employee names: %w", err)
	}

	if result.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound{EmployeeUUID: id}
	}

	return nil
}
