package department

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DepartmentAllKeyPrefix = "departments:all:"

	departmentListCacheTTL = 30 * time.Minute
)

func GetDepartmentAllKey(companyID string) string {
	return DepartmentAllKeyPrefix + companyID
}

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context, companyID string) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, companyID, id string) (DepartmentResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateDepartmentRequest) (DepartmentResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	dept := &Department{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CompanyID:   uuid.MustParse(companyID),
	}

	if err := s.repo.WithTx(tx).Create(ctx, dept); err != nil {
		return DepartmentResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	s.logger.Info("department created",
		zap.String("company_id", companyID),
		zap.String("department_id", dept.ID.String()),
	)
	s.dropListCache(ctx, companyID)

	return toDepartmentResponse(*dept), nil
}

// GetAll serves from redis when it can. Concurrent cache misses for the same
// company collapse into a single database read via singleflight.
func (s *service) GetAll(ctx context.Context, companyID string) ([]DepartmentResponse, error) {
	cacheKey := GetDepartmentAllKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []DepartmentResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		depts, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := make([]DepartmentResponse, len(depts))
		for i, d := range depts {
			resp[i] = toDepartmentResponse(d)
		}

		if s.rdb != nil {
			if raw, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, raw, departmentListCacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]DepartmentResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (DepartmentResponse, error) {
	dept, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return DepartmentResponse{}, err
	}

	return toDepartmentResponse(*dept), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return DepartmentResponse{}, err
	}

	dept.Name = req.Name
	dept.Description = req.Description

	if err := qtx.Update(ctx, dept); err != nil {
		return DepartmentResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	s.dropListCache(ctx, companyID)

	return toDepartmentResponse(*dept), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, companyID, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("department deleted",
		zap.String("company_id", companyID),
		zap.String("department_id", id),
	)
	s.dropListCache(ctx, companyID)

	return nil
}

// dropListCache removes the cached list right after a write commits.
func (s *service) dropListCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetDepartmentAllKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("cache invalidation failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func toDepartmentResponse(dept Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          dept.ID.String(),
		Name:        dept.Name,
		Description: dept.Description,
		CompanyID:   dept.CompanyID.String(),
		CreatedAt:   dept.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   dept.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
