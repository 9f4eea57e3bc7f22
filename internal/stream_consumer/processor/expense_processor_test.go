package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cashcog-expense-manager/internal/domain/employee"
	"github.com/cashcog-expense-manager/internal/domain/expense"
)

// Mock implementations of the dependencies

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	args := m.Called(ctx, emp)
	return args.Error(0)
}

func (m *MockEmployeeRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*employee.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) UpdateNames(ctx context.Context, id uuid.UUID, firstName, lastName string) error {
	args := m.Called(ctx, id, firstName, lastName)
	return args.Error(0)
}

func (m *MockEmployeeRepository) WithTx(tx pgx.Tx) employee.Repository {
	return m
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExpenseRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockExpenseRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) List(ctx context.Context, filter expense.ListFilter) ([]expense.Expense, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]expense.Expense), args.Int(1), args.Error(2)
}

func (m *MockExpenseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status expense.ApprovalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockExpenseRepository) WithTx(tx pgx.Tx) expense.Repository {
	return m
}

type MockDLQPublisher struct {
	mock.Mock
}

func (m *MockDLQPublisher) PublishToDLQ(ctx context.Context, key string, originalEventValue []byte, reason string) error {
	args := m.Called(ctx, key, originalEventValue, reason)
	return args.Error(0)
}

func (m *MockDLQPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// fakeTxRunner invokes the callback directly, standing in for a real
// database transaction.
type fakeTxRunner struct {
	beginErr error
	calls    int
}

func (f *fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(nil)
}

func newTestProcessor(db TxRunner, empRepo employee.Repository, expRepo expense.Repository) *ExpenseProcessor {
	return NewExpenseProcessor(db, empRepo, expRepo, nil, 3, time.Millisecond, slog.Default())
}

var (
	testExpenseUUID  = uuid.MustParse("11111111-2222-3333-4444-555555555555")
	testEmployeeUUID = uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
)

func validEventJSON() []byte {
	return []byte(fmt.Sprintf(`{
		"uuid": "%s",
		"description": "Taxi to the airport",
		"created_at": "2026-02-11T09:30:00Z",
		"amount": 42.5,
		"currency": "EUR",
		"employee": {
			"uuid": "%s",
			"first_name": "Ada",
			"last_name": "Lovelace"
		}
	}`, testExpenseUUID, testEmployeeUUID))
}

func TestExpenseProcessor_Process_NewExpenseAndNewEmployee(t *testing.T) {
	db := &fakeTxRunner{}
	empRepo := new(MockEmployeeRepository)
	expRepo := new(MockExpenseRepository)

	empRepo.On("GetByUUID", mock.Anything, testEmployeeUUID).
		Return(nil, employee.ErrEmployeeNotFound{EmployeeUUID: testEmployeeUUID})
	empRepo.On("Create", mock.Anything, mock.MatchedBy(func(emp *employee.Employee) bool {
		return emp.UUID == testEmployeeUUID && emp.FirstName == "Ada" && emp.LastName == "Lovelace"
	})).Return(nil)
	expRepo.On("Exists", mock.Anything, testExpenseUUID).Return(false, nil)
	expRepo.On("Create", mock.Anything, mock.MatchedBy(func(exp *expense.Expense) bool {
		return exp.UUID == testExpenseUUID &&
			exp.AmountCents == int64(4250) &&
			exp.Currency == "EUR" &&
			exp.Status == expense.StatusPending &&
			exp.EmployeeUUID == testEmployeeUUID
	})).Return(nil)

	p := newTestProcessor(db, empRepo, expRepo)
	err := p.Process(context.Background(), validEventJSON())

	assert.NoError(t, err)
	assert.Equal(t, 1, db.calls)
	empRepo.AssertExpectations(t)
	expRepo.AssertExpectations(t)
}

func TestExpenseProcessor_Process_ExistingEmployeeNamesUnchanged(t *testing.T) {
	db := &fakeTxRunner{}
	empRepo := new(MockEmployeeRepository)
	expRepo := new(MockExpenseRepository)

	existing := &employee.Employee{UUID: testEmployeeUUID, FirstName: "Ada", LastName: "Lovelace"}
	empRepo.On("GetByUUID", mock.Anything, testEmployeeUUID).Return(existing, nil)
	expRepo.On("Exists", mock.Anything, testExpenseUUID).Return(false, nil)
	expRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	p := newTestProcessor(db, empRepo, expRepo)
	err := p.Process(context.Background(), validEventJSON())

	assert.NoError(t, err)
	empRepo.AssertNotCalled(t, "UpdateNames", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	empRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExpenseProcessor_Process_ExistingEmployeeNamesChanged(t *testing.T) {
	db := &fakeTxRunner{}
	empRepo := new(MockEmployeeRepository)
	expRepo := new(MockExpenseRepository)

	existing := &employee.Employee{UUID: testEmployeeUUID, FirstName: "Ada", LastName: "Byron"}
	empRepo.On("GetByUUID", mock.Anything, testEmployeeUUID).Return(existing, nil)
	empRepo.On("UpdateNames", mock.Anything, testEmployeeUUID, "Ada", "Lovelace").Return(nil)
	expRepo.On("Exists", mock.Anything, testExpenseUUID).Return(false, nil)
	expRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	p := newTestProcessor(db, empRepo, expRepo)
	err := p.Process(context.Background(), validEventJSON())

	assert.NoError(t, err)
	empRepo.AssertExpectations(t)
}

func TestExpenseProcessor_Process_DuplicateExpenseSkipsInsert(t *testing.T) {
	db := &fakeTxRunner{}
	empRepo := new(MockEmployeeRepository)
	expRepo := new(MockExpenseRepository)

	existing := &employee.Employee{UUID: testEmployeeUUID, FirstName: "Ada", LastName: "Lovelace"}
	empRepo.On("GetByUUID", mock.Anything, testEmployeeUUID).Return(existing, nil)
	expRepo.On("Exists", mock.Anything, testExpenseUUID).Return(true, nil)

	p := newTestProcessor(db, empRepo, expRepo)
	err := p.Process(context.Background(), validEventJSON())

	assert.NoError(t, err)
	assert.Equal(t, 1, db.calls)
	expRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExpenseProcessor_Process_UniqueViolationTreatedAsDuplicate(t *testing.T) {
	db := &fakeTxRunner{}
	empRepo := new(MockEmployeeRepository)
	expRepo := new(MockExpenseRepository)

	existing := &employee.Employee{UUID: testEmployeeUUID, FirstName: "Ada", LastName: "Lovelace"}
	empRepo.On("GetByUUID", mock.Anything, testEmployeeUUID).Return(existing, nil)
	expRepo.On("Exists", mock.Anything, testExpenseUUID).Return(false, nil)
	expRepo.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("failed to create expense: %w", &pgconn.PgError{Code: "23505"}))

	p := newTestProcessor(db, empRepo, expRepo)
	err := p.Process(context.Background(), validEventJSON())

	assert.NoError(t, err)
	assert.Equal(t, 1, db.calls, "unique violation must not be retried")
}

func TestExpenseProcessor_Process_RetriesThenDrops(t *testing.T) {
	db := &fakeTxRunner{beginErr: errors.New("connection refused")}
	empRepo := new(MockEmployeeRepository)
	expRepo := new(MockExpenseRepository)

	p := newTestProcessor(db, empRepo, expRepo)
	err := p.Process(context.Background(), validEventJSON())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dropped expense event after 3 attempts")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 3, db.calls)
}

func TestExpenseProcessor_Process_PublishesToDLQAfterExhaustion(t *testing.T) {
	db := &fakeTxRunner{beginErr: errors.New("connection refused")}
	empRepo := new(MockEmployeeRepository)
	expRepo := new(MockExpenseRepository)
	dlq := new(MockDLQPublisher)

	event := validEventJSON()
	dlq.On("PublishToDLQ", mock.Anything, testExpenseUUID.String(), event, mock.MatchedBy(func(reason string) bool {
		return reason != ""
	})).Return(nil)

	p := NewExpenseProcessor(db, empRepo, expRepo, dlq, 3, time.Millisecond, slog.Default())
	err := p.Process(context.Background(), event)

	assert.Error(t, err)
	dlq.AssertExpectations(t)
}

func TestExpenseProcessor_Process_MalformedPayloadRetriesThenDrops(t *testing.T) {
	db := &fakeTxRunner{}
	empRepo := new(MockEmployeeRepository)
	expRepo := new(MockExpenseRepository)

	p := newTestProcessor(db, empRepo, expRepo)
	err := p.Process(context.Background(), []byte(`{"uuid": "not-a-uuid"}`))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal expense event")
	assert.Equal(t, 0, db.calls, "unmarshal failures never reach the database")
}

func TestExpenseProcessor_Process_MissingFieldsRetriesThenDrops(t *testing.T) {
	db := &fakeTxRunner{}
	empRepo := new(MockEmployeeRepository)
	expRepo := new(MockExpenseRepository)

	event := []byte(fmt.Sprintf(`{"uuid": "%s", "description": "Lunch"}`, testExpenseUUID))

	p := newTestProcessor(db, empRepo, expRepo)
	err := p.Process(context.Background(), event)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing or empty required fields")
	assert.Equal(t, 0, db.calls)
}

func TestExpenseProcessor_Process_ContextCancelledDuringBackoff(t *testing.T) {
	db := &fakeTxRunner{beginErr: errors.New("connection refused")}
	empRepo := new(MockEmployeeRepository)
	expRepo := new(MockExpenseRepository)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewExpenseProcessor(db, empRepo, expRepo, nil, 3, time.Minute, slog.Default())
	err := p.Process(ctx, validEventJSON())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, db.calls)
}

func TestEventKey(t *testing.T) {
	assert.Equal(t, testExpenseUUID.String(), EventKey(validEventJSON()))
	assert.Equal(t, "unknown", EventKey([]byte(`{"description": "no id"}`)))
	assert.Equal(t, "unknown", EventKey([]byte(`not json`)))
}

func TestExpenseEvent_Validate(t *testing.T) {
	evt := ExpenseEvent{}
	err := evt.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "uuid")
	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "employee.first_name")

	amount := 10.0
	evt = ExpenseEvent{
		UUID:        testExpenseUUID,
		Description: "Lunch",
		CreatedAt:   time.Now(),
		Amount:      &amount,
		Currency:    "EUR",
		Employee: EmployeeEvent{
			UUID:      testEmployeeUUID,
			FirstName: "Ada",
			LastName:  "Lovelace",
		},
	}
	assert.NoError(t, evt.Validate())
}
