package position_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/position"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePositionRepository struct {
	CreateFunc             func(ctx context.Context, pos *position.Position) error
	FindAllByCompanyFunc   func(ctx context.Context, companyID string) ([]position.Position, error)
	FindByIDAndCompanyFunc func(ctx context.Context, companyID, id string) (*position.Position, error)
	UpdateFunc             func(ctx context.Context, pos *position.Position) error
	DeleteFunc             func(ctx context.Context, companyID, id string) error
}

func (f *fakePositionRepository) WithTx(tx *sql.Tx) position.Repository { return f }

func (f *fakePositionRepository) Create(ctx context.Context, pos *position.Position) error {
	return f.CreateFunc(ctx, pos)
}

func (f *fakePositionRepository) FindAllByCompany(ctx context.Context, companyID string) ([]position.Position, error) {
	return f.FindAllByCompanyFunc(ctx, companyID)
}

func (f *fakePositionRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*position.Position, error) {
	return f.FindByIDAndCompanyFunc(ctx, companyID, id)
}

func (f *fakePositionRepository) Update(ctx context.Context, pos *position.Position) error {
	return f.UpdateFunc(ctx, pos)
}

func (f *fakePositionRepository) Delete(ctx context.Context, companyID, id string) error {
	return f.DeleteFunc(ctx, companyID, id)
}

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   position.Service
	repo      *fakePositionRepository
	redisMock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	dbRedis, redisMock := redismock.NewClientMock()
	repo := &fakePositionRepository{}

	svc := position.NewService(db, repo, dbRedis)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redisMock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestPositionService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		departmentID := uuid.New().String()
		req := position.CreatePositionRequest{Name: "Backend Engineer", DepartmentID: departmentID}

		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel(position.GetPositionAllKey(companyID)).SetVal(1)

		var createdID string
		deps.repo.CreateFunc = func(ctx context.Context, p *position.Position) error {
			assert.Equal(t, req.Name, p.Name)
			assert.Equal(t, companyID, p.CompanyID.String())
			assert.Equal(t, departmentID, p.DepartmentID.String())
			createdID = p.ID.String()
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, req)

		assert.NoError(t, err)
		assert.Equal(t, createdID, resp.ID)
		assert.Equal(t, req.Name, resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("repo error rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.CreateFunc = func(ctx context.Context, p *position.Position) error {
			return errors.New("db error")
		}

		_, err := deps.service.Create(ctx, companyID, position.CreatePositionRequest{
			Name:         "Backend Engineer",
			DepartmentID: uuid.New().String(),
		})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPositionService_GetAll(t *testing.T) {
	ctx := context.Background()
	companyID := "c56a4180-65aa-42ec-a945-5fd21dec0538"
	cacheKey := position.GetPositionAllKey(companyID)

	t.Run("cache hit serves from redis", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cached := []position.PositionResponse{
			{ID: "pos-1", Name: "Backend Engineer"},
			{ID: "pos-2", Name: "Data Analyst"},
		}
		jsonResp, _ := json.Marshal(cached)

		deps.redisMock.ExpectGet(cacheKey).SetVal(string(jsonResp))

		deps.repo.FindAllByCompanyFunc = func(ctx context.Context, companyID string) ([]position.Position, error) {
			t.Fatal("repository must not be hit on a cache hit")
			return nil, nil
		}

		resp, err := deps.service.GetAll(ctx, companyID)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Backend Engineer", resp[0].Name)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss reads db and stores result", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redisMock.ExpectGet(cacheKey).RedisNil()

		deptID := uuid.New()
		positions := []position.Position{
			{
				ID:           uuid.New(),
				Name:         "Backend Engineer",
				CompanyID:    uuid.MustParse(companyID),
				DepartmentID: deptID,
				Department:   &position.PositionDepartment{ID: deptID, Name: "Engineering"},
			},
		}
		calls := 0
		deps.repo.FindAllByCompanyFunc = func(ctx context.Context, gotCompany string) ([]position.Position, error) {
			calls++
			assert.Equal(t, companyID, gotCompany)
			return positions, nil
		}

		expected := []position.PositionResponse{
			{
				ID:             positions[0].ID.String(),
				CompanyID:      companyID,
				DepartmentID:   deptID.String(),
				DepartmentName: "Engineering",
				Name:           "Backend Engineer",
			},
		}
		jsonData, _ := json.Marshal(expected)
		deps.redisMock.ExpectSet(cacheKey, jsonData, 30*time.Minute).SetVal("OK")

		resp, err := deps.service.GetAll(ctx, companyID)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Engineering", resp[0].DepartmentName)
		assert.Equal(t, 1, calls)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("database error is returned", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redisMock.ExpectGet(cacheKey).RedisNil()

		deps.repo.FindAllByCompanyFunc = func(ctx context.Context, companyID string) ([]position.Position, error) {
			return nil, errors.New("db connection error")
		}

		resp, err := deps.service.GetAll(ctx, companyID)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestPositionService_GetByID(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	targetID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.FindByIDAndCompanyFunc = func(ctx context.Context, gotCompany, gotID string) (*position.Position, error) {
			assert.Equal(t, companyID, gotCompany)
			assert.Equal(t, targetID, gotID)
			return &position.Position{ID: uuid.MustParse(targetID), Name: "Backend Engineer"}, nil
		}

		resp, err := deps.service.GetByID(ctx, companyID, targetID)

		assert.NoError(t, err)
		assert.Equal(t, targetID, resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.FindByIDAndCompanyFunc = func(ctx context.Context, companyID, id string) (*position.Position, error) {
			return nil, apperror.ErrNotFound
		}

		resp, err := deps.service.GetByID(ctx, companyID, targetID)

		assert.Error(t, err)
		assert.Empty(t, resp.ID)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

func TestPositionService_Update(t *testing.T) {
	ctx := context.Background()
	targetID := uuid.New()
	companyID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		newDeptID := uuid.New().String()
		req := position.UpdatePositionRequest{Name: "Platform Engineer", DepartmentID: newDeptID}

		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel(position.GetPositionAllKey(companyID.String())).SetVal(1)

		deps.repo.FindByIDAndCompanyFunc = func(ctx context.Context, gotCompany, gotID string) (*position.Position, error) {
			assert.Equal(t, companyID.String(), gotCompany)
			assert.Equal(t, targetID.String(), gotID)
			return &position.Position{ID: targetID, CompanyID: companyID, Name: "Backend Engineer"}, nil
		}
		deps.repo.UpdateFunc = func(ctx context.Context, p *position.Position) error {
			assert.Equal(t, req.Name, p.Name)
			assert.Equal(t, newDeptID, p.DepartmentID.String())
			return nil
		}

		resp, err := deps.service.Update(ctx, companyID.String(), targetID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, req.Name, resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("position not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.FindByIDAndCompanyFunc = func(ctx context.Context, companyID, id string) (*position.Position, error) {
			return nil, apperror.ErrNotFound
		}

		_, err := deps.service.Update(ctx, companyID.String(), targetID.String(), position.UpdatePositionRequest{
			Name:         "Platform Engineer",
			DepartmentID: uuid.New().String(),
		})

		assert.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

func TestPositionService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	targetID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel(position.GetPositionAllKey(companyID)).SetVal(1)

		deps.repo.DeleteFunc = func(ctx context.Context, gotCompany, gotID string) error {
			assert.Equal(t, companyID, gotCompany)
			assert.Equal(t, targetID, gotID)
			return nil
		}

		err := deps.service.Delete(ctx, companyID, targetID)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("db error rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.DeleteFunc = func(ctx context.Context, companyID, id string) error {
			return errors.New("db error")
		}

		err := deps.service.Delete(ctx, companyID, targetID)

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
