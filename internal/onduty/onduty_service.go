package onduty

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leavesplit"
	ondutyerrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/onduty/errors"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/contextutil"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/counter"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=onduty_service.go -destination=mock/onduty_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateOnDutyRequest) (OnDutyResponse, error)
	GetAll(ctx context.Context, companyID string) ([]OnDutyResponse, error)
	GetByID(ctx context.Context, companyID, id string) (OnDutyResponse, error)
	PerformAction(ctx context.Context, companyID string, actor workflow.Actor, id string, action workflow.Action, notes string) (OnDutyResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("onduty.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onduty.service")
	}
	return &service{db: db, repo: repo, counter: counter, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateOnDutyRequest) (OnDutyResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create on-duty requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("from_date", req.FromDate),
		zap.String("to_date", req.ToDate),
		zap.String("place", req.Place),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create on-duty begin tx failed", zap.Error(err))
		return OnDutyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return OnDutyResponse{}, ondutyerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return OnDutyResponse{}, ondutyerrors.ErrInvalidEmployeeID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return OnDutyResponse{}, ondutyerrors.ErrInvalidActorID
	}
	fromDate, err := leavesplit.ParseDateOnly(req.FromDate)
	if err != nil {
		return OnDutyResponse{}, ondutyerrors.ErrInvalidDateFormat
	}
	toDate, err := leavesplit.ParseDateOnly(req.ToDate)
	if err != nil {
		return OnDutyResponse{}, ondutyerrors.ErrInvalidDateFormat
	}
	if fromDate.After(toDate) {
		return OnDutyResponse{}, ondutyerrors.ErrInvalidDateRange
	}

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create on-duty employee company check failed", zap.Error(err))
		return OnDutyResponse{}, err
	}
	if !belongs {
		return OnDutyResponse{}, ondutyerrors.ErrEmployeeNotInCompany
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, req.EmployeeID, fromDate, toDate, nil)
	if err != nil {
		s.logger.Error("create on-duty overlap check failed", zap.Error(err))
		return OnDutyResponse{}, err
	}
	if overlap {
		return OnDutyResponse{}, ondutyerrors.ErrOnDutyOverlap
	}

	nextVal, err := s.counter.GetNextValue(ctx, companyID, "onduty_application_number")
	if err != nil {
		s.logger.Error("create on-duty generate number failed", zap.Error(err))
		return OnDutyResponse{}, err
	}

	managerID, err := qtx.ReportingManagerOf(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create on-duty reporting manager lookup failed", zap.Error(err))
		return OnDutyResponse{}, err
	}

	od := &OnDuty{
		ID:                uuid.New(),
		CompanyID:         companyUUID,
		EmployeeID:        employeeUUID,
		ApplicationNumber: fmt.Sprintf("OD-%05d", nextVal),
		FromDate:          fromDate,
		ToDate:            toDate,
		Purpose:           req.Purpose,
		Place:             req.Place,
		PhotoURL:          req.PhotoURL,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		Status:            string(workflow.StatePending),
		CreatedBy:         createdByUUID,
		ApprovalChain:     []byte("[]"),
	}
	if managerID != "" {
		if mid, err := uuid.Parse(managerID); err == nil {
			od.ReportingManagerID = &mid
		}
	}

	if err := qtx.Create(ctx, od); err != nil {
		s.logger.Error("create on-duty persist failed", zap.Error(err))
		return OnDutyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create on-duty commit failed", zap.Error(err))
		return OnDutyResponse{}, err
	}
	s.logger.Info("create on-duty success",
		zap.String("request_id", rid),
		zap.String("onduty_id", od.ID.String()),
		zap.String("application_number", od.ApplicationNumber),
	)

	return mapToResponse(*od), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]OnDutyResponse, error) {
	applications, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	responses := make([]OnDutyResponse, 0, len(applications))
	for _, od := range applications {
		responses = append(responses, mapToResponse(od))
	}
	return responses, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (OnDutyResponse, error) {
	od, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OnDutyResponse{}, ondutyerrors.ErrOnDutyNotFound
		}
		return OnDutyResponse{}, err
	}
	return mapToResponse(*od), nil
}

func (s *service) PerformAction(ctx context.Context, companyID string, actor workflow.Actor, id string, action workflow.Action, notes string) (OnDutyResponse, error) {
	s.logger.Debug("on-duty workflow action requested",
		zap.String("onduty_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("action", string(action)),
	)

	if action == workflow.ActionReject && notes == "" {
		return OnDutyResponse{}, ondutyerrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("on-duty workflow action begin tx failed", zap.Error(err))
		return OnDutyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	od, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OnDutyResponse{}, ondutyerrors.ErrOnDutyNotFound
		}
		return OnDutyResponse{}, err
	}

	subject := workflow.Subject{
		State:       workflow.State(od.Status),
		ApplicantID: od.EmployeeID.String(),
	}
	if od.ReportingManagerID != nil {
		subject.ReportingManagerID = od.ReportingManagerID.String()
	}

	allowed, rule := workflow.CanPerformAction(actor, subject, action)
	if !allowed {
		s.logger.Warn("on-duty workflow action denied",
			zap.String("onduty_id", id),
			zap.String("actor_id", actor.EmployeeID),
			zap.String("action", string(action)),
			zap.String("status", od.Status),
		)
		return OnDutyResponse{}, ondutyerrors.ErrActionNotAllowed
	}

	effectiveRole := effectiveRoleFor(rule, actor.Role)
	next, ok := workflow.Transition(subject.State, effectiveRole, action)
	if !ok {
		return OnDutyResponse{}, ondutyerrors.ErrInvalidStatusTransition
	}

	step := workflow.Step{
		Role:   effectiveRole,
		Action: action,
		Actor:  actor.EmployeeID,
		At:     time.Now().UTC(),
		Notes:  notes,
	}
	chain, err := appendChainStep(od.ApprovalChain, step)
	if err != nil {
		return OnDutyResponse{}, err
	}
	od.ApprovalChain = chain
	od.Status = string(next)

	if action == workflow.ActionReject {
		od.RejectionReason = &notes
	}

	if err := qtx.Update(ctx, od); err != nil {
		s.logger.Error("on-duty workflow action persist failed",
			zap.String("onduty_id", id),
			zap.Error(err),
		)
		return OnDutyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("on-duty workflow action commit failed",
			zap.String("onduty_id", id),
			zap.Error(err),
		)
		return OnDutyResponse{}, err
	}
	s.logger.Info("on-duty workflow action success",
		zap.String("onduty_id", id),
		zap.String("action", string(action)),
		zap.String("rule", rule),
		zap.String("status", od.Status),
	)
	return mapToResponse(*od), nil
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

func mapToResponse(od OnDuty) OnDutyResponse {
	resp := OnDutyResponse{
		ID:                od.ID.String(),
		CompanyID:         od.CompanyID.String(),
		EmployeeID:        od.EmployeeID.String(),
		ApplicationNumber: od.ApplicationNumber,
		FromDate:          leavesplit.ToISODate(od.FromDate),
		ToDate:            leavesplit.ToISODate(od.ToDate),
		Purpose:           od.Purpose,
		Place:             od.Place,
		PhotoURL:          od.PhotoURL,
		Latitude:          od.Latitude,
		Longitude:         od.Longitude,
		CreatedBy:         od.CreatedBy.String(),
		RejectionReason:   od.RejectionReason,
		Workflow: WorkflowResponse{
			Status:        od.Status,
			ApprovalChain: []workflow.Step{},
		},
	}
	if next := workflow.NextApproverRole(workflow.State(od.Status)); next != "" {
		resp.Workflow.NextApproverRole = string(next)
	}
	if len(od.ApprovalChain) > 0 {
		var steps []workflow.Step
		if err := json.Unmarshal(od.ApprovalChain, &steps); err == nil {
			resp.Workflow.ApprovalChain = steps
		}
	}
	return resp
}
