package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cashcog-expense-manager/internal/domain/employee"
	"github.com/cashcog-expense-manager/internal/domain/expense"
	"github.com/cashcog-expense-manager/internal/metrics"
	"github.com/cashcog-expense-manager/internal/platform/messaging/producers"
)

// TxRunner runs a function inside a database transaction
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// ExpenseProcessor persists expense events. Each event is handled in a single
// database transaction covering the employee upsert and the expense insert,
// so a crash can never leave an expense without its employee.
type ExpenseProcessor struct {
	db           TxRunner
	employeeRepo employee.Repository
	expenseRepo  expense.Repository
	dlq          producers.DeadLetterPublisher
	maxRetries   int
	retryBackoff time.Duration
	logger       *slog.Logger
}

func NewExpenseProcessor(
	db TxRunner,
	employeeRepo employee.Repository,
	expenseRepo expense.Repository,
	dlq producers.DeadLetterPublisher,
	maxRetries int,
	retryBackoff time.Duration,
	logger *slog.Logger,
) *ExpenseProcessor {
	return &ExpenseProcessor{
		db:           db,
		employeeRepo: employeeRepo,
		expenseRepo:  expenseRepo,
		dlq:          dlq,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
		logger:       logger,
	}
}

// Process attempts to persist one expense event, retrying transient failures
// with a fixed backoff. After the final attempt fails the event is dropped:
// the failure is logged, published to the DLQ when one is configured, and the
// terminal error is returned for the caller to log. The caller never retries.
func (p *ExpenseProcessor) Process(ctx context.Context, event []byte) error {
	key := EventKey(event)
	logger := p.logger.With("expense_uuid", key)

	var lastErr error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		created, err := p.processOnce(ctx, event)
		if err == nil {
			if created {
				metrics.EventsProcessed.Inc()
				logger.Info("Expense event persisted", "attempt", attempt)
			} else {
				metrics.EventsDuplicate.Inc()
				logger.Info("Duplicate expense event skipped", "attempt", attempt)
			}
			return nil
		}

		lastErr = err
		logger.Error("Failed to process expense event",
			"attempt", attempt,
			"max_retries", p.maxRetries,
			"error", err,
		)

		if attempt < p.maxRetries {
			metrics.EventRetries.Inc()
			select {
			case <-time.After(p.retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	metrics.EventsFailed.Inc()
	logger.Error("Dropping expense event after exhausting retries",
		"max_retries", p.maxRetries,
		"error", lastErr,
	)

	if p.dlq != nil {
		reason := fmt.Sprintf("exhausted %d processing attempts: %v", p.maxRetries, lastErr)
		if dlqErr := p.dlq.PublishToDLQ(ctx, key, event, reason); dlqErr != nil {
			logger.Error("Failed to publish dropped expense event to DLQ", "error", dlqErr)
		}
	}

	return fmt.Errorf("dropped expense event after %d attempts: %w", p.maxRetries, lastErr)
}

// processOnce runs one full persistence attempt. created is false when the
// expense already existed and nothing was inserted.
func (p *ExpenseProcessor) processOnce(ctx context.Context, event []byte) (created bool, err error) {
	var evt ExpenseEvent
	if err := json.Unmarshal(event, &evt); err != nil {
		return false, fmt.Errorf("failed to unmarshal expense event: %w", err)
	}
	if err := evt.Validate(); err != nil {
		return false, fmt.Errorf("invalid expense event: %w", err)
	}

	err = p.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		employeeRepo := p.employeeRepo.WithTx(tx)
		expenseRepo := p.expenseRepo.WithTx(tx)

		if err := p.reconcileEmployee(ctx, employeeRepo, evt.Employee); err != nil {
			return err
		}

		exists, err := expenseRepo.Exists(ctx, evt.UUID)
		if err != nil {
			return fmt.Errorf("failed to check expense existence: %w", err)
		}
		if exists {
			return nil
		}

		exp, err := expense.NewExpense(
			evt.UUID,
			evt.Description,
			evt.CreatedAt,
			expense.ToCents(*evt.Amount),
			evt.Currency,
			evt.Employee.UUID,
		)
		if err != nil {
			return fmt.Errorf("failed to build expense: %w", err)
		}

		if err := expenseRepo.Create(ctx, exp); err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		created = true
		return nil
	})
	if err != nil {
		// A concurrent insert of the same expense surfaces as a unique
		// violation; treat it the same as the exists check firing.
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}

	return created, nil
}

// reconcileEmployee creates the employee on first sighting and refreshes the
// stored names when a later event carries different ones.
func (p *ExpenseProcessor) reconcileEmployee(ctx context.Context, repo employee.Repository, evt EmployeeEvent) error {
	existing, err := repo.GetByUUID(ctx, evt.UUID)
	if err != nil {
		var notFound employee.ErrEmployeeNotFound
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to load employee: %w", err)
		}

		emp, err := employee.NewEmployee(evt.UUID, evt.FirstName, evt.LastName)
		if err != nil {
			return fmt.Errorf("failed to build employee: %w", err)
		}
		if err := repo.Create(ctx, emp); err != nil {
			return fmt.Errorf("failed to insert employee: %w", err)
		}
		return nil
	}

	if existing.NamesMatch(evt.FirstName, evt.LastName) {
		return nil
	}
	if err := repo.UpdateNames(ctx, evt.UUID, evt.FirstName, evt.LastName); err != nil {
		return fmt.Errorf("failed to update employee names: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
