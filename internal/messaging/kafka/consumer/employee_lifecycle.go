package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the slice of kafka-go's Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// RegisterSeeder seeds leave balances for a newly hired employee.
type RegisterSeeder interface {
	SeedEmployee(ctx context.Context, companyID, employeeID string, year int) error
}

// ConsumeEmployeeLifecycle seeds the leave register whenever an employee
// lifecycle event announces a new hire. Seeding is idempotent, so a message
// replay after a crash between handle and commit is harmless.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	seeder RegisterSeeder,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := handleEmployeeCreated(ctx, seeder, msg.Value, log); err != nil {
			log.Error("handle employee event failed",
				zap.String("key", string(msg.Key)),
				zap.Error(err),
			)
			// Leave the offset uncommitted so the message is retried.
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}

func handleEmployeeCreated(ctx context.Context, seeder RegisterSeeder, payload []byte, log *zap.Logger) error {
	var event events.EmployeeCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Warn("skipping malformed employee event", zap.Error(err))
		return nil
	}

	year := event.OccurredAt.Year()
	if event.HireDate != "" {
		if hired, err := time.Parse("2006-01-02", event.HireDate); err == nil {
			year = hired.Year()
		}
	}
	if year <= 1 {
		// zero OccurredAt and no hire date
		year = time.Now().Year()
	}

	if err := seeder.SeedEmployee(ctx, event.CompanyID, event.EmployeeID, year); err != nil {
		return err
	}

	log.Info("leave register seeded",
		zap.String("employee_id", event.EmployeeID),
		zap.String("company_id", event.CompanyID),
		zap.Int("year", year),
	)
	return nil
}
