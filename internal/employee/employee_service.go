package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	employeeerrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/employee/errors"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/events"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leavesplit"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/messaging/kafka"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/contextutil"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/counter"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/ref"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("position_id", req.PositionID),
		zap.String("email", req.Email),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	departmentID, hireDate, err := s.resolveRequestRefs(ctx, qtx, companyID, req.PositionID, req.HireDate, req.ReportingManagerID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, companyID, "employee_number")
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	role := req.Role
	if role == "" {
		role = "employee"
	}
	status := req.EmploymentStatus
	if status == "" {
		status = "active"
	}

	empl := &Employee{
		ID:               uuid.New(),
		FullName:         req.FullName,
		Email:            req.Email,
		CompanyID:        uuid.MustParse(companyID),
		PositionID:       uuidPtr(req.PositionID),
		DepartmentID:     uuidPtr(departmentID),
		EmployeeNumber:   req.EmployeeNumber,
		Phone:            req.Phone,
		HireDate:         hireDate,
		EmploymentStatus: status,
		Role:             role,
	}
	if req.ReportingManagerID != "" {
		empl.ReportingManagerID = uuidPtr(req.ReportingManagerID)
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:  "employee_created",
			RequestID:  rid,
			EmployeeID: empl.ID.String(),
			CompanyID:  companyID,
			HireDate:   leavesplit.ToISODate(hireDate),
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, companyID)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_number", empl.EmployeeNumber),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("company_id", companyID))
	employees, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(employees), nil
}

// GetOptions serves the id/name list dropdowns need. The result is cached
// in Redis and rebuilt under singleflight so a popular form does not
// stampede postgres.
func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		emps, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(emps)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

// GetByID expands the department and reporting-manager references into
// populated objects; list endpoints leave them as bare ids.
func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)
	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	resp := mapToResponse(*empl)
	if empl.DepartmentID != nil {
		if name, err := s.repo.DepartmentNameOf(ctx, companyID, empl.DepartmentID.String()); err == nil && name != "" {
			resp.Department = ref.FromEntity(DepartmentRef{ID: empl.DepartmentID.String(), Name: name})
		}
	}
	if empl.ReportingManagerID != nil {
		if manager, err := s.repo.FindByIDAndCompany(ctx, companyID, empl.ReportingManagerID.String()); err == nil {
			resp.ReportingManager = ref.FromEntity(ManagerRef{ID: manager.ID.String(), FullName: manager.FullName})
		}
	}
	return resp, nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
		zap.String("position_id", req.PositionID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	departmentID, hireDate, err := s.resolveRequestRefs(ctx, qtx, companyID, req.PositionID, req.HireDate, req.ReportingManagerID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	empl, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.FullName = req.FullName
	empl.Email = req.Email
	empl.PositionID = uuidPtr(req.PositionID)
	empl.DepartmentID = uuidPtr(departmentID)
	empl.Phone = req.Phone
	empl.HireDate = hireDate
	if req.EmployeeNumber != "" {
		empl.EmployeeNumber = req.EmployeeNumber
	}
	if req.EmploymentStatus != "" {
		empl.EmploymentStatus = req.EmploymentStatus
	}
	if req.Role != "" {
		empl.Role = req.Role
	}
	if req.ReportingManagerID != "" {
		empl.ReportingManagerID = uuidPtr(req.ReportingManagerID)
	} else {
		empl.ReportingManagerID = nil
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, companyID)
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) error {
	s.logger.Debug("delete employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptionsCache(ctx, companyID)
	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

// resolveRequestRefs validates the position (deriving its department), the
// hire date, and the optional reporting manager.
func (s *service) resolveRequestRefs(
	ctx context.Context,
	qtx Repository,
	companyID, positionID, rawHireDate, managerID string,
) (string, time.Time, error) {
	departmentID, err := qtx.GetDepartmentIDByPosition(ctx, companyID, positionID)
	if err != nil {
		s.logger.Error("resolve position failed", zap.Error(err))
		return "", time.Time{}, err
	}
	if departmentID == "" {
		s.logger.Warn("position not found in company",
			zap.String("company_id", companyID),
			zap.String("position_id", positionID),
		)
		return "", time.Time{}, employeeerrors.ErrPositionNotFound
	}

	hireDate, err := leavesplit.ParseDateOnly(rawHireDate)
	if err != nil {
		s.logger.Warn("invalid hire_date",
			zap.String("hire_date", rawHireDate),
			zap.Error(err),
		)
		return "", time.Time{}, employeeerrors.ErrInvalidHireDate
	}

	if managerID != "" {
		belongs, err := qtx.ExistsInCompany(ctx, companyID, managerID)
		if err != nil {
			return "", time.Time{}, err
		}
		if !belongs {
			return "", time.Time{}, employeeerrors.ErrInvalidReportingManager
		}
	}

	return departmentID, hireDate, nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:               empl.ID.String(),
		EmployeeNumber:   empl.EmployeeNumber,
		FullName:         empl.FullName,
		Email:            empl.Email,
		Phone:            empl.Phone,
		CompanyID:        empl.CompanyID.String(),
		EmploymentStatus: empl.EmploymentStatus,
		Role:             empl.Role,
	}
	if !empl.HireDate.IsZero() {
		resp.HireDate = leavesplit.ToISODate(empl.HireDate)
	}
	if empl.PositionID != nil {
		resp.PositionID = empl.PositionID.String()
	}
	if empl.DepartmentID != nil {
		resp.Department = ref.FromID[DepartmentRef](empl.DepartmentID.String())
	}
	if empl.ReportingManagerID != nil {
		resp.ReportingManager = ref.FromID[ManagerRef](empl.ReportingManagerID.String())
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	responses := make([]EmployeeResponse, 0, len(employees))
	for _, empl := range employees {
		responses = append(responses, mapToResponse(empl))
	}
	return responses
}

func uuidPtr(s string) *uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
