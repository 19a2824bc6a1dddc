package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	leaveerrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leave/errors"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leavesplit"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/messaging/kafka"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/contextutil"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/counter"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/events"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	PerformAction(ctx context.Context, companyID string, actor workflow.Actor, id string, action workflow.Action, notes string) (LeaveResponse, error)
	GetSplitDraft(ctx context.Context, companyID, id string) ([]leavesplit.Split, error)
	ValidateSplits(ctx context.Context, companyID, id string, req ReplaceSplitsRequest) (leavesplit.ValidationResult, error)
	ReplaceSplits(ctx context.Context, companyID string, actor workflow.Actor, id string, req ReplaceSplitsRequest) (LeaveResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, counter: counter, outbox: outboxRepo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("from_date", req.FromDate),
		zap.String("to_date", req.ToDate),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	companyUUID, employeeUUID, createdByUUID, fromDate, toDate, err := validateCreateRequest(companyID, actorID, req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create leave employee company check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, req.EmployeeID, fromDate, toDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.EmployeeID),
			zap.String("from_date", req.FromDate),
			zap.String("to_date", req.ToDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	nextVal, err := s.counter.GetNextValue(ctx, companyID, "leave_application_number")
	if err != nil {
		s.logger.Error("create leave generate number failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	managerID, err := qtx.ReportingManagerOf(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create leave reporting manager lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &Leave{
		ID:                uuid.New(),
		CompanyID:         companyUUID,
		EmployeeID:        employeeUUID,
		ApplicationNumber: fmt.Sprintf("LV-%05d", nextVal),
		LeaveType:         req.LeaveType,
		FromDate:          fromDate,
		ToDate:            toDate,
		IsHalfDay:         req.IsHalfDay,
		NumberOfDays:      numberOfDays(fromDate, toDate, req.IsHalfDay),
		Reason:            req.Reason,
		Status:            string(workflow.StatePending),
		CreatedBy:         createdByUUID,
		ApprovalChain:     []byte("[]"),
	}
	if req.IsHalfDay {
		ht := req.HalfDayType
		if ht == "" {
			ht = leavesplit.HalfDayFirst
		}
		l.HalfDayType = &ht
	}
	if managerID != "" {
		if mid, err := uuid.Parse(managerID); err == nil {
			l.ReportingManagerID = &mid
		}
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("application_number", l.ApplicationNumber),
		zap.String("employee_id", req.EmployeeID),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// PerformAction runs one workflow step (verify, approve, reject, cancel)
// against an application. Legality comes from the workflow transition table;
// authority from the permission precedence rules.
func (s *service) PerformAction(ctx context.Context, companyID string, actor workflow.Actor, id string, action workflow.Action, notes string) (LeaveResponse, error) {
	s.logger.Debug("leave workflow action requested",
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("actor_role", string(actor.Role)),
		zap.String("action", string(action)),
	)

	if action == workflow.ActionReject && notes == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave workflow action begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err = uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	if _, err = uuid.Parse(actor.EmployeeID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	subject := workflow.Subject{
		State:       workflow.State(l.Status),
		ApplicantID: l.EmployeeID.String(),
	}
	if l.ReportingManagerID != nil {
		subject.ReportingManagerID = l.ReportingManagerID.String()
	}

	allowed, rule := workflow.CanPerformAction(actor, subject, action)
	if !allowed {
		s.logger.Warn("leave workflow action denied",
			zap.String("leave_id", id),
			zap.String("actor_id", actor.EmployeeID),
			zap.String("action", string(action)),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrActionNotAllowed
	}

	effectiveRole := effectiveRoleFor(rule, actor.Role)
	next, ok := workflow.Transition(subject.State, effectiveRole, action)
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	step := workflow.Step{
		Role:   effectiveRole,
		Action: action,
		Actor:  actor.EmployeeID,
		At:     time.Now().UTC(),
		Notes:  notes,
	}
	chain, err := appendChainStep(l.ApprovalChain, step)
	if err != nil {
		return LeaveResponse{}, err
	}
	l.ApprovalChain = chain
	l.Status = string(next)

	if action == workflow.ActionReject {
		l.RejectionReason = &notes
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("leave workflow action persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if s.outbox != nil {
		if eventType := finalizedEventType(next); eventType != "" {
			if err := s.queueFinalizedEvent(ctx, tx, l, eventType); err != nil {
				return LeaveResponse{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave workflow action commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("leave workflow action success",
		zap.String("leave_id", id),
		zap.String("action", string(action)),
		zap.String("rule", rule),
		zap.String("status", l.Status),
	)
	return mapToResponse(*l), nil
}

// effectiveRoleFor maps the permission rule that granted an action to the
// role the transition table expects.
func effectiveRoleFor(rule string, actorRole workflow.Role) workflow.Role {
	switch rule {
	case "admin_override":
		return workflow.RoleAdmin
	case "reporting_manager":
		return workflow.RoleHOD
	case "applicant_cancel":
		return workflow.RoleEmployee
	default:
		return actorRole
	}
}

func (s *service) GetSplitDraft(ctx context.Context, companyID, id string) ([]leavesplit.Split, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return leavesplit.BuildInitialSplits(toSplitApplication(*l))
}

func (s *service) ValidateSplits(ctx context.Context, companyID, id string, req ReplaceSplitsRequest) (leavesplit.ValidationResult, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leavesplit.ValidationResult{}, leaveerrors.ErrLeaveNotFound
		}
		return leavesplit.ValidationResult{}, err
	}
	return leavesplit.ValidateSplits(toSplitApplication(*l), payloadToSplits(req.Splits)), nil
}

// ReplaceSplits swaps the whole per-day outcome set of an application. Only
// HR (or an admin) can split, and only once the application has cleared the
// HOD step. An approved application re-queues its consumption so the
// register picks up the new day count.
func (s *service) ReplaceSplits(ctx context.Context, companyID string, actor workflow.Actor, id string, req ReplaceSplitsRequest) (LeaveResponse, error) {
	if actor.Role != workflow.RoleHR && actor.Role != workflow.RoleAdmin {
		return LeaveResponse{}, leaveerrors.ErrActionNotAllowed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("replace splits begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	switch workflow.State(l.Status) {
	case workflow.StateHODApproved, workflow.StateApproved:
	default:
		return LeaveResponse{}, leaveerrors.ErrSplitsNotEditable
	}

	result := leavesplit.ValidateSplits(toSplitApplication(*l), payloadToSplits(req.Splits))
	if !result.IsValid {
		s.logger.Warn("replace splits validation failed",
			zap.String("leave_id", id),
			zap.Strings("errors", result.Errors),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidSplits
	}

	entities, err := payloadToEntities(l.ID, req.Splits)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := qtx.ReplaceSplits(ctx, l.ID.String(), entities); err != nil {
		s.logger.Error("replace splits persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	l.Splits = entities

	if workflow.State(l.Status) == workflow.StateApproved && s.outbox != nil {
		if err := s.queueFinalizedEvent(ctx, tx, l, events.LeaveSplitsReplaced); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("replace splits commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("replace splits success",
		zap.String("leave_id", id),
		zap.Int("split_count", len(entities)),
	)
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return tx.Commit()
}

// finalizedEventType maps a terminal workflow state to its lifecycle event
// type. Non-terminal states emit nothing.
func finalizedEventType(state workflow.State) string {
	switch state {
	case workflow.StateApproved:
		return events.LeaveFinalizedApproved
	case workflow.StateRejected:
		return events.LeaveFinalizedRejected
	case workflow.StateCancelled:
		return events.LeaveFinalizedCancelled
	}
	return ""
}

// queueFinalizedEvent writes a leave lifecycle event to the outbox in the
// same transaction as the state change.
func (s *service) queueFinalizedEvent(ctx context.Context, tx *sql.Tx, l *Leave, eventType string) error {
	event := events.LeaveFinalizedEvent{
		EventType:    eventType,
		LeaveID:      l.ID.String(),
		CompanyID:    l.CompanyID.String(),
		EmployeeID:   l.EmployeeID.String(),
		LeaveType:    l.LeaveType,
		Status:       l.Status,
		ConsumedDays: consumedDays(*l),
		Year:         l.FromDate.Year(),
		OccurredAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave event failed", zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue leave event failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// consumedDays is the balance cost of an application: derived from the
// split plan when one exists, otherwise the whole approved range.
func consumedDays(l Leave) float64 {
	if len(l.Splits) > 0 {
		return leavesplit.ConsumedDays(entitiesToSplits(l.Splits))
	}
	return l.NumberOfDays
}

func validateCreateRequest(companyID, actorID string, req CreateLeaveRequest) (uuid.UUID, uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidEmployeeID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidActorID
	}
	fromDate, err := leavesplit.ParseDateOnly(req.FromDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	toDate, err := leavesplit.ParseDateOnly(req.ToDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if fromDate.After(toDate) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if req.IsHalfDay && !fromDate.Equal(toDate) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrHalfDayMultiDay
	}
	return companyUUID, employeeUUID, createdByUUID, fromDate, toDate, nil
}

func numberOfDays(fromDate, toDate time.Time, isHalfDay bool) float64 {
	if isHalfDay {
		return 0.5
	}
	// Inclusive calendar days. Local midnights can be 23 hours apart
	// across a DST transition, so hours are never divided by 24 here.
	days := 0.0
	for d := fromDate; !d.After(toDate); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

func appendChainStep(chain []byte, step workflow.Step) ([]byte, error) {
	var steps []workflow.Step
	if len(chain) > 0 {
		if err := json.Unmarshal(chain, &steps); err != nil {
			return nil, err
		}
	}
	steps = append(steps, step)
	return json.Marshal(steps)
}
