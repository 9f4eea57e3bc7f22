package processor

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmployeeEvent is the nested employee object of an expense event
type EmployeeEvent struct {
	UUID      uuid.UUID `json:"uuid"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// ExpenseEvent is the decoded shape of one expense fact from the stream.
// Any status-like field in the payload is deliberately not modeled: ingestion
// always persists PENDING.
type ExpenseEvent struct {
	UUID        uuid.UUID     `json:"uuid"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	Amount      *float64      `json:"amount"`
	Currency    string        `json:"currency"`
	Employee    EmployeeEvent `json:"employee"`
}

// Validate checks the structural requirements of the event shape
func (e *ExpenseEvent) Validate() error {
	var missing []string

	if e.UUID == uuid.Nil {
		missing = append(missing, "uuid")
	}
	if e.Description == "" {
		missing = append(missing, "description")
	}
	if e.CreatedAt.IsZero() {
		missing = append(missing, "created_at")
	}
	if e.Amount == nil {
		missing = append(missing, "amount")
	}
	if e.Currency == "" {
		missing = append(missing, "currency")
	}
	if e.Employee.UUID == uuid.Nil {
		missing = append(missing, "employee.uuid")
	}
	if e.Employee.FirstName == "" {
		missing = append(missing, "employee.first_name")
	}
	if e.Employee.LastName == "" {
		missing = append(missing, "employee.last_name")
	}

	if len(missing) > 0 {
		return errors.New("missing or empty required fields: " + strings.Join(missing, ", "))
	}

	return nil
}
