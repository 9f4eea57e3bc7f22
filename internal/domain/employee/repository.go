package employee

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines employee persistence operations
type Repository interface {
	Create(ctx context.Context, emp *Employee) error
	GetByUUID(ctx context.Context, id uuid.UUID) (*Employee, error)

	// UpdateNames rewrites the employee's names in place
	UpdateNames(ctx context.Context, id uuid.UUID, firstName, lastName string) error
	WithTx(tx pgx.Tx) Repository
}

// ErrEmployeeNotFound indicates missing employee
type ErrEmployeeNotFound struct {
	EmployeeUUID uuid.UUID
}

func (e ErrEmployeeNotFound) Error() string {
	return "employee not found: " + e.EmployeeUUID.String()
}
