package leaveregister

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	leaveregistererrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leaveregister/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const registerKeyPrefix = "leaveregister:"

func registerCacheKey(companyID, employeeID string, year int) string {
	return registerKeyPrefix + companyID + ":" + employeeID + ":" + itoa(year)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// DefaultPolicies is the accrual schedule seeded for every new employee.
var DefaultPolicies = []AccrualPolicy{
	{LeaveType: "CL", DaysPerYear: 12, Frequency: FreqMonthly},
	{LeaveType: "SL", DaysPerYear: 6, Frequency: FreqUpfront},
	{LeaveType: "EL", DaysPerYear: 15, Frequency: FreqMonthly},
}

//go:generate mockgen -source=leave_register_service.go -destination=mock/leave_register_service_mock.go -package=mock
type Service interface {
	SeedEmployee(ctx context.Context, companyID, employeeID string, year int) error
	Credit(ctx context.Context, companyID string, req CreditRequest) error
	ApplyConsumption(ctx context.Context, companyID string, req ConsumptionRequest) error
	GetRegister(ctx context.Context, companyID, employeeID string, year int) (RegisterResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leaveregister.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveregister.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

// SeedEmployee creates zero-usage balance rows for each default policy,
// with the full-year accrual already granted for upfront policies and the
// year-to-date portion for monthly ones. Re-seeding an already seeded
// employee is a no-op.
func (s *service) SeedEmployee(ctx context.Context, companyID, employeeID string, year int) error {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return leaveregistererrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return leaveregistererrors.ErrInvalidEmployeeID
	}
	if year < 2000 || year > 2100 {
		return leaveregistererrors.ErrInvalidYear
	}

	now := time.Now()
	for _, p := range DefaultPolicies {
		accrued := p.AccruedAsOf(now)
		if now.Year() != year {
			accrued = p.DaysPerYear
		}

		b := &LeaveBalance{
			ID:          uuid.New(),
			CompanyID:   companyUUID,
			EmployeeID:  employeeUUID,
			LeaveType:   p.LeaveType,
			Year:        year,
			AccruedDays: accrued,
		}
		if err := s.repo.CreateBalance(ctx, b); err != nil {
			if isUniqueViolation(err) {
				s.logger.Warn("leave balance already seeded, skipping",
					zap.String("employee_id", employeeID),
					zap.String("leave_type", p.LeaveType),
				)
				continue
			}
			return err
		}
	}

	s.invalidate(ctx, companyID, employeeID, year)
	return nil
}

func (s *service) Credit(ctx context.Context, companyID string, req CreditRequest) error {
	s.logger.Debug("credit leave balance requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.Float64("days", req.Days),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return leaveregistererrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return leaveregistererrors.ErrInvalidEmployeeID
	}
	if !isHalfDayMultiple(req.Days) {
		return leaveregistererrors.ErrInvalidDays
	}

	if _, err := s.repo.FindBalance(ctx, companyID, req.EmployeeID, req.LeaveType, req.Year); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveregistererrors.ErrBalanceNotFound
		}
		return err
	}

	if err := s.repo.AddAccrued(ctx, companyID, req.EmployeeID, req.LeaveType, req.Year, req.Days); err != nil {
		s.logger.Error("credit leave balance persist failed", zap.Error(err))
		return err
	}

	s.invalidate(ctx, companyID, req.EmployeeID, req.Year)
	s.logger.Info("credit leave balance success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.Float64("days", req.Days),
	)
	return nil
}

// ApplyConsumption records the balance cost of one finalized leave. The
// entry is keyed by leave id, so replaying an event or re-splitting the
// same application overwrites rather than double-counts.
func (s *service) ApplyConsumption(ctx context.Context, companyID string, req ConsumptionRequest) error {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return leaveregistererrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return leaveregistererrors.ErrInvalidEmployeeID
	}
	leaveUUID, err := uuid.Parse(req.LeaveID)
	if err != nil {
		return leaveregistererrors.ErrInvalidLeaveID
	}
	if req.Days < 0 || !isHalfDayMultiple(req.Days) {
		return leaveregistererrors.ErrInvalidDays
	}

	entry := &ConsumptionEntry{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		LeaveID:    leaveUUID,
		LeaveType:  req.LeaveType,
		Year:       req.Year,
		Days:       req.Days,
	}
	if err := s.repo.UpsertConsumption(ctx, entry); err != nil {
		s.logger.Error("apply consumption persist failed",
			zap.String("leave_id", req.LeaveID),
			zap.Error(err),
		)
		return err
	}

	s.invalidate(ctx, companyID, req.EmployeeID, req.Year)
	s.logger.Info("leave consumption applied",
		zap.String("leave_id", req.LeaveID),
		zap.String("employee_id", req.EmployeeID),
		zap.Float64("days", req.Days),
	)
	return nil
}

func (s *service) GetRegister(ctx context.Context, companyID, employeeID string, year int) (RegisterResponse, error) {
	cacheKey := registerCacheKey(companyID, employeeID, year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp RegisterResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindRegister(ctx, companyID, employeeID, year)
		if err != nil {
			return nil, err
		}

		resp := RegisterResponse{
			EmployeeID: employeeID,
			Year:       year,
			Balances:   rows,
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 10*time.Minute)
			}
		}

		return resp, nil
	})

	if err != nil {
		return RegisterResponse{}, err
	}

	return v.(RegisterResponse), nil
}

func (s *service) invalidate(ctx context.Context, companyID, employeeID string, year int) {
	if s.rdb == nil {
		return
	}
	cacheKey := registerCacheKey(companyID, employeeID, year)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate leave register cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func isHalfDayMultiple(v float64) bool {
	scaled := v * 2
	return scaled == math.Trunc(scaled)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
