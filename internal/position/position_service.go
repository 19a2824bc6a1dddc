package position

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
	PositionAllKeyPrefix = "positions:all:"

	positionListCacheTTL = 30 * time.Minute
)

func GetPositionAllKey(companyID string) string {
	return PositionAllKeyPrefix + companyID
}

//go:generate mockgen -source=position_service.go -destination=mock/position_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreatePositionRequest) (PositionResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PositionResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PositionResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdatePositionRequest) (PositionResponse, error)
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
	l := zap.L().Named("position.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("position.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreatePositionRequest) (PositionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	pos := &Position{
		ID:           uuid.New(),
		Name:         req.Name,
		CompanyID:    uuid.MustParse(companyID),
		DepartmentID: uuid.MustParse(req.DepartmentID),
	}

	if err := s.repo.WithTx(tx).Create(ctx, pos); err != nil {
		return PositionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PositionResponse{}, err
	}

	s.logger.Info("position created",
		zap.String("company_id", companyID),
		zap.String("position_id", pos.ID.String()),
	)
	s.dropListCache(ctx, companyID)

	return toPositionResponse(*pos), nil
}

// GetAll serves from redis when it can. Concurrent cache misses for the same
// company collapse into a single database read via singleflight.
func (s *service) GetAll(ctx context.Context, companyID string) ([]PositionResponse, error) {
	cacheKey := GetPositionAllKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []PositionResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		positions, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := make([]PositionResponse, len(positions))
		for i, p := range positions {
			resp[i] = toPositionResponse(p)
		}

		if s.rdb != nil {
			if raw, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, raw, positionListCacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]PositionResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PositionResponse, error) {
	pos, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PositionResponse{}, err
	}

	return toPositionResponse(*pos), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdatePositionRequest) (PositionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pos, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PositionResponse{}, err
	}

	pos.Name = req.Name
	pos.DepartmentID = uuid.MustParse(req.DepartmentID)

	if err := qtx.Update(ctx, pos); err != nil {
		return PositionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PositionResponse{}, err
	}

	s.dropListCache(ctx, companyID)

	return toPositionResponse(*pos), nil
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

	s.logger.Info("position deleted",
		zap.String("company_id", companyID),
		zap.String("position_id", id),
	)
	s.dropListCache(ctx, companyID)

	return nil
}

// dropListCache removes the cached list right after a write commits.
func (s *service) dropListCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetPositionAllKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("cache invalidation failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func toPositionResponse(pos Position) PositionResponse {
	resp := PositionResponse{
		ID:        pos.ID.String(),
		Name:      pos.Name,
		CompanyID: pos.CompanyID.String(),
	}
	if pos.DepartmentID != uuid.Nil {
		resp.DepartmentID = pos.DepartmentID.String()
	}
	if pos.Department != nil {
		resp.DepartmentName = pos.Department.Name
	}
	if !pos.CreatedAt.IsZero() {
		resp.CreatedAt = pos.CreatedAt.Format(time.RFC3339)
	}
	if !pos.UpdatedAt.IsZero() {
		resp.UpdatedAt = pos.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
