package expense

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyDescription      = errors.New("description cannot be empty")
	ErrInvalidCurrencyFormat = errors.New("currency cannot be empty")
)

// ApprovalStatus is the review state of an expense
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusDeclined ApprovalStatus = "DECLINED"
)

// IsValid reports whether s is one of the known approval statuses
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDeclined:
		return true
	}
	return false
}

// IsTerminal reports whether s is a settled state that must not change again
func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusDeclined
}

// Expense represents one expense fact ingested from the stream.
// An expense is created exactly once; ingestion never mutates or deletes it.
type Expense struct {
	UUID         uuid.UUID      `json:"uuid"`
	Description  string         `json:"description"`
	CreatedAt    time.Time      `json:"created_at"`
	AmountCents  int64          `json:"amount_cents"` // Stored in cents/minor units
	Currency     string         `json:"currency"`
	EmployeeUUID uuid.UUID      `json:"employee_uuid"`
	Status       ApprovalStatus `json:"status"`
	IngestedAt   time.Time      `json:"ingested_at"`
}

// NewExpense creates a new expense owned by the given employee.
// Status is always PENDING on creation regardless of what the payload carried.
func NewExpense(id uuid.UUID, description string, createdAt time.Time, amountCents int64, currency string, employeeUUID uuid.UUID) (*Expense, error) {
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if currency == "" {
		return nil, ErrInvalidCurrencyFormat
	}

	return &Expense{
		UUID:         id,
		Description:  description,
		CreatedAt:    createdAt,
		AmountCents:  amountCents,
		Currency:     currency,
		EmployeeUUID: employeeUUID,
		Status:       StatusPending,
		IngestedAt:   time.Now(),
	}, nil
}

// ToCents converts an amount in major units to minor units,
// rounding half away from zero.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// MajorUnits returns the amount in major units for presentation
func (e *Expense) MajorUnits() float64 {
	return float64(e.AmountCents) / 100
}
