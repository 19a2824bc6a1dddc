package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/events"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leaveregister"

	"go.uber.org/zap"
)

// ConsumptionApplier records a finalized leave's balance cost.
type ConsumptionApplier interface {
	ApplyConsumption(ctx context.Context, companyID string, req leaveregister.ConsumptionRequest) error
}

// ConsumeLeaveLifecycle applies leave consumption to the register whenever a
// leave application is finalized or its splits are replaced. The register
// upserts by leave id, so replays and split replacements converge on the
// latest cost.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	applier ConsumptionApplier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := handleLeaveFinalized(ctx, applier, msg.Value, log); err != nil {
			log.Error("handle leave event failed",
				zap.String("key", string(msg.Key)),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}

func handleLeaveFinalized(ctx context.Context, applier ConsumptionApplier, payload []byte, log *zap.Logger) error {
	var event events.LeaveFinalizedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Warn("skipping malformed leave event", zap.Error(err))
		return nil
	}

	days := event.ConsumedDays
	switch event.EventType {
	case events.LeaveFinalizedApproved, events.LeaveSplitsReplaced:
		// keep the event's consumed days
	case events.LeaveFinalizedRejected, events.LeaveFinalizedCancelled:
		// A terminal rejection or cancellation releases the whole cost.
		days = 0
	default:
		log.Warn("skipping unknown leave event type", zap.String("event_type", event.EventType))
		return nil
	}

	err := applier.ApplyConsumption(ctx, event.CompanyID, leaveregister.ConsumptionRequest{
		LeaveID:    event.LeaveID,
		EmployeeID: event.EmployeeID,
		LeaveType:  event.LeaveType,
		Year:       event.Year,
		Days:       days,
	})
	if err != nil {
		return err
	}

	log.Info("leave consumption recorded",
		zap.String("leave_id", event.LeaveID),
		zap.String("event_type", event.EventType),
		zap.Float64("days", days),
	)
	return nil
}
