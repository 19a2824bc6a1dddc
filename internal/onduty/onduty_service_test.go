package onduty_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/onduty"
	ondutyerrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/onduty/errors"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeOnDutyRepository struct {
	withTxFn                 func(tx *sql.Tx) onduty.Repository
	createFn                 func(ctx context.Context, od *onduty.OnDuty) error
	findAllByCompanyFn       func(ctx context.Context, companyID string) ([]onduty.OnDuty, error)
	findAllByEmployeeFn      func(ctx context.Context, companyID, employeeID string) ([]onduty.OnDuty, error)
	findByIDAndCompanyFn     func(ctx context.Context, companyID, id string) (*onduty.OnDuty, error)
	updateFn                 func(ctx context.Context, od *onduty.OnDuty) error
	deleteFn                 func(ctx context.Context, companyID, id string) error
	employeeBelongsToCompany func(ctx context.Context, companyID, employeeID string) (bool, error)
	reportingManagerOfFn     func(ctx context.Context, companyID, employeeID string) (string, error)
	hasOverlappingPeriodFn   func(ctx context.Context, companyID, employeeID string, fromDate, toDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeOnDutyRepository) WithTx(tx *sql.Tx) onduty.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOnDutyRepository) Create(ctx context.Context, od *onduty.OnDuty) error {
	if f.createFn != nil {
		return f.createFn(ctx, od)
	}
	return nil
}

func (f *fakeOnDutyRepository) FindAllByCompany(ctx context.Context, companyID string) ([]onduty.OnDuty, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeOnDutyRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]onduty.OnDuty, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeOnDutyRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*onduty.OnDuty, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeOnDutyRepository) Update(ctx context.Context, od *onduty.OnDuty) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, od)
	}
	return nil
}

func (f *fakeOnDutyRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func (f *fakeOnDutyRepository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	if f.employeeBelongsToCompany != nil {
		return f.employeeBelongsToCompany(ctx, companyID, employeeID)
	}
	return true, nil
}

func (f *fakeOnDutyRepository) ReportingManagerOf(ctx context.Context, companyID, employeeID string) (string, error) {
	if f.reportingManagerOfFn != nil {
		return f.reportingManagerOfFn(ctx, companyID, employeeID)
	}
	return "", nil
}

func (f *fakeOnDutyRepository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, fromDate, toDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, companyID, employeeID, fromDate, toDate, excludeID)
	}
	return false, nil
}

type fakeCounterRepository struct {
	getNextValueFn func(ctx context.Context, companyID, counterType string) (int64, error)
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	if f.getNextValueFn != nil {
		return f.getNextValueFn(ctx, companyID, counterType)
	}
	return 1, nil
}

type ondutyServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service onduty.Service
	repo    *fakeOnDutyRepository
}

func setupOnDutyServiceTest(t *testing.T) *ondutyServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeOnDutyRepository{}
	svc := onduty.NewService(db, repo, &fakeCounterRepository{})

	return &ondutyServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
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

func float64ptr(v float64) *float64 { return &v }
func strptr(s string) *string       { return &s }

func TestOnDutyService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success with evidence", func(t *testing.T) {
		deps := setupOnDutyServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := onduty.CreateOnDutyRequest{
			EmployeeID: employeeID,
			FromDate:   "2026-05-11",
			ToDate:     "2026-05-12",
			Purpose:    "Client workshop",
			Place:      "Visakhapatnam",
			PhotoURL:   strptr("https://cdn.example.com/evidence/od-1.jpg"),
			Latitude:   float64ptr(17.6868),
			Longitude:  float64ptr(83.2185),
		}

		deps.repo.createFn = func(ctx context.Context, od *onduty.OnDuty) error {
			assert.Equal(t, uuid.MustParse(employeeID), od.EmployeeID)
			assert.Equal(t, "OD-00001", od.ApplicationNumber)
			assert.Equal(t, string(workflow.StatePending), od.Status)
			if assert.NotNil(t, od.Latitude) {
				assert.InDelta(t, 17.6868, *od.Latitude, 0.0001)
			}
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, "Client workshop", resp.Purpose)
		assert.Equal(t, "2026-05-11", resp.FromDate)
		assert.Equal(t, string(workflow.RoleVerifier), resp.Workflow.NextApproverRole)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative inverted range", func(t *testing.T) {
		deps := setupOnDutyServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := onduty.CreateOnDutyRequest{
			EmployeeID: employeeID,
			FromDate:   "2026-05-12",
			ToDate:     "2026-05-11",
			Purpose:    "Client workshop",
			Place:      "Visakhapatnam",
		}

		_, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, ondutyerrors.ErrInvalidDateRange)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative overlapping period", func(t *testing.T) {
		deps := setupOnDutyServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := onduty.CreateOnDutyRequest{
			EmployeeID: employeeID,
			FromDate:   "2026-05-11",
			ToDate:     "2026-05-12",
			Purpose:    "Client workshop",
			Place:      "Visakhapatnam",
		}

		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, cid, eid string, fromDate, toDate time.Time, excludeID *string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, ondutyerrors.ErrOnDutyOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func pendingOnDuty(companyID, employeeID string) *onduty.OnDuty {
	return &onduty.OnDuty{
		ID:                uuid.New(),
		CompanyID:         uuid.MustParse(companyID),
		EmployeeID:        uuid.MustParse(employeeID),
		ApplicationNumber: "OD-00004",
		FromDate:          time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC),
		ToDate:            time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
		Purpose:           "Client workshop",
		Place:             "Visakhapatnam",
		Status:            string(workflow.StatePending),
		CreatedBy:         uuid.MustParse(employeeID),
		ApprovalChain:     []byte("[]"),
	}
}

func TestOnDutyService_PerformAction(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("manager approves directly from pending", func(t *testing.T) {
		deps := setupOnDutyServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		managerID := uuid.New()
		od := pendingOnDuty(companyID, employeeID)
		od.ReportingManagerID = &managerID
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*onduty.OnDuty, error) {
			return od, nil
		}
		deps.repo.updateFn = func(ctx context.Context, updated *onduty.OnDuty) error {
			assert.Equal(t, string(workflow.StateHODApproved), updated.Status)
			var steps []workflow.Step
			assert.NoError(t, json.Unmarshal(updated.ApprovalChain, &steps))
			if assert.Len(t, steps, 1) {
				assert.Equal(t, workflow.RoleHOD, steps[0].Role)
			}
			return nil
		}

		// The manager holds no approver role but matches by reporting line.
		actor := workflow.Actor{EmployeeID: managerID.String(), Role: workflow.RoleEmployee}
		resp, err := deps.service.PerformAction(ctx, companyID, actor, od.ID.String(), workflow.ActionApprove, "")

		assert.NoError(t, err)
		assert.Equal(t, string(workflow.StateHODApproved), resp.Workflow.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("admin cancels mid-flight", func(t *testing.T) {
		deps := setupOnDutyServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		od := pendingOnDuty(companyID, employeeID)
		od.Status = string(workflow.StateHODApproved)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*onduty.OnDuty, error) {
			return od, nil
		}

		actor := workflow.Actor{EmployeeID: uuid.New().String(), Role: workflow.RoleAdmin}
		resp, err := deps.service.PerformAction(ctx, companyID, actor, od.ID.String(), workflow.ActionCancel, "duplicate entry")

		assert.NoError(t, err)
		assert.Equal(t, string(workflow.StateCancelled), resp.Workflow.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative applicant cannot approve own", func(t *testing.T) {
		deps := setupOnDutyServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		od := pendingOnDuty(companyID, employeeID)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*onduty.OnDuty, error) {
			return od, nil
		}

		actor := workflow.Actor{EmployeeID: employeeID, Role: workflow.RoleEmployee}
		_, err := deps.service.PerformAction(ctx, companyID, actor, od.ID.String(), workflow.ActionApprove, "")

		assert.ErrorIs(t, err, ondutyerrors.ErrActionNotAllowed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reject without reason", func(t *testing.T) {
		deps := setupOnDutyServiceTest(t)
		defer deps.db.Close()

		actor := workflow.Actor{EmployeeID: uuid.New().String(), Role: workflow.RoleHR}
		_, err := deps.service.PerformAction(ctx, companyID, actor, uuid.New().String(), workflow.ActionReject, "")

		assert.ErrorIs(t, err, ondutyerrors.ErrRejectionReasonRequired)
	})
}
