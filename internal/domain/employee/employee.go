package employee

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyFirstName = errors.New("first name cannot be empty")
	ErrEmptyLastName  = errors.New("last name cannot be empty")
)

// Employee represents the owner of one or more expenses. Employees are
// created on first sighting in the stream and reconciled in place afterwards.
type Employee struct {
	UUID      uuid.UUID `json:"uuid"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEmployee creates a new employee with the given identity and names
func NewEmployee(id uuid.UUID, firstName, lastName string) (*Employee, error) {
	if firstName == "" {
		return nil, ErrEmptyFirstName
	}
	if lastName == "" {
		return nil, ErrEmptyLastName
	}

	now := time.Now()
	return &Employee{
		UUID:      id,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NamesMatch reports whether the stored names already equal the given ones,
// in which case reconciliation performs no write.
func (e *Employee) NamesMatch(firstName, lastName string) bool {
	return e.FirstName == firstName && e.LastName == lastName
}
