package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/cashcog-expense-manager/internal/domain/employee"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestEmployeeRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EmployeeRepository{querier: mock, logger: logger}

	emp := &employee.Employee{
		UUID:      uuid.New(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
		INSERT INTO employees \(uuid, first_name, last_name, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(emp.UUID, emp.FirstName, emp.LastName, emp.CreatedAt, emp.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, emp)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(emp.UUID, emp.FirstName, emp.LastName, emp.CreatedAt, emp.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, emp)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create employee")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEmployeeRepository_GetByUUID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EmployeeRepository{querier: mock, logger: logger}
	empID := uuid.New()
	now := time.Now()

	expectedEmployee := &employee.Employee{
		UUID:      empID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		SELECT uuid, first_name, last_name, created_at, updated_at
		FROM employees
		WHERE uuid = \$1
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"uuid", "first_name", "last_name", "created_at", "updated_at"}).
			AddRow(expectedEmployee.UUID, expectedEmployee.FirstName, expectedEmployee.LastName, expectedEmployee.CreatedAt, expectedEmployee.UpdatedAt)

		mock.ExpectQuery(query).WithArgs(empID).WillReturnRows(rows)

		emp, err := repo.GetByUUID(ctx, empID)
		assert.NoError(t, err)
		assert.Equal(t, expectedEmployee, emp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(empID).WillReturnError(pgx.ErrNoRows)

		emp, err := repo.GetByUUID(ctx, empID)
		assert.Error(t, err)
		assert.Nil(t, emp)
		var notFoundErr employee.ErrEmployeeNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, empID, notFoundErr.EmployeeUUID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEmployeeRepository_UpdateNames(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EmployeeRepository{querier: mock, logger: logger}
	empID := uuid.New()

	query := `
		UPDATE employees
		SET first_name = \$1, last_name = \$2, updated_at = NOW\(\)
		WHERE uuid = \$3
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("Grace", "Hopper", empID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateNames(ctx, empID, "Grace", "Hopper")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("Grace", "Hopper", empID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateNames(ctx, empID, "Grace", "Hopper")
		var notFoundErr employee.ErrEmployeeNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
