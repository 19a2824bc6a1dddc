package leaveregister_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leaveregister"
	leaveregistererrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leaveregister/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRegisterService struct {
	SeedEmployeeFn     func(ctx context.Context, companyID, employeeID string, year int) error
	CreditFn           func(ctx context.Context, companyID string, req leaveregister.CreditRequest) error
	ApplyConsumptionFn func(ctx context.Context, companyID string, req leaveregister.ConsumptionRequest) error
	GetRegisterFn      func(ctx context.Context, companyID, employeeID string, year int) (leaveregister.RegisterResponse, error)
}

func (f *fakeRegisterService) SeedEmployee(ctx context.Context, companyID, employeeID string, year int) error {
	return f.SeedEmployeeFn(ctx, companyID, employeeID, year)
}

func (f *fakeRegisterService) Credit(ctx context.Context, companyID string, req leaveregister.CreditRequest) error {
	return f.CreditFn(ctx, companyID, req)
}

func (f *fakeRegisterService) ApplyConsumption(ctx context.Context, companyID string, req leaveregister.ConsumptionRequest) error {
	return f.ApplyConsumptionFn(ctx, companyID, req)
}

func (f *fakeRegisterService) GetRegister(ctx context.Context, companyID, employeeID string, year int) (leaveregister.RegisterResponse, error) {
	return f.GetRegisterFn(ctx, companyID, employeeID, year)
}

func newRegisterTestRouter(companyID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("company_id", companyID)
		c.Next()
	})
	return r
}

func TestLeaveRegisterHandler_GetRegister(t *testing.T) {
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success with explicit year", func(t *testing.T) {
		svc := &fakeRegisterService{
			GetRegisterFn: func(ctx context.Context, gotCompany, gotEmployee string, year int) (leaveregister.RegisterResponse, error) {
				assert.Equal(t, companyID, gotCompany)
				assert.Equal(t, employeeID, gotEmployee)
				assert.Equal(t, 2026, year)
				return leaveregister.RegisterResponse{
					EmployeeID: gotEmployee,
					Year:       year,
					Balances: []leaveregister.BalanceRow{
						{LeaveType: "CL", AccruedDays: 12, UsedDays: 2, BalanceDays: 10},
					},
				}, nil
			},
		}
		h := leaveregister.NewHandler(svc)

		r := newRegisterTestRouter(companyID)
		r.GET("/leave-register/:employeeId", h.GetRegister)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/leave-register/"+employeeID+"?year=2026", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var env struct {
			Ok   bool                           `json:"ok"`
			Data leaveregister.RegisterResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.Len(t, env.Data.Balances, 1)
		assert.Equal(t, 10.0, env.Data.Balances[0].BalanceDays)
	})

	t.Run("invalid year", func(t *testing.T) {
		h := leaveregister.NewHandler(&fakeRegisterService{})

		r := newRegisterTestRouter(companyID)
		r.GET("/leave-register/:employeeId", h.GetRegister)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/leave-register/"+employeeID+"?year=1800", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveRegisterHandler_Credit(t *testing.T) {
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeRegisterService{
			CreditFn: func(ctx context.Context, gotCompany string, req leaveregister.CreditRequest) error {
				assert.Equal(t, companyID, gotCompany)
				assert.Equal(t, employeeID, req.EmployeeID)
				assert.Equal(t, 2.0, req.Days)
				return nil
			},
		}
		h := leaveregister.NewHandler(svc)

		r := newRegisterTestRouter(companyID)
		r.POST("/leave-register/credit", h.Credit)

		body := `{"employee_id":"` + employeeID + `","leave_type":"EL","year":2026,"days":2}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-register/credit", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		h := leaveregister.NewHandler(&fakeRegisterService{})

		r := newRegisterTestRouter(companyID)
		r.POST("/leave-register/credit", h.Credit)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-register/credit", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service error maps status", func(t *testing.T) {
		svc := &fakeRegisterService{
			CreditFn: func(ctx context.Context, companyID string, req leaveregister.CreditRequest) error {
				return leaveregistererrors.ErrBalanceNotFound
			},
		}
		h := leaveregister.NewHandler(svc)

		r := newRegisterTestRouter(companyID)
		r.POST("/leave-register/credit", h.Credit)

		body := `{"employee_id":"` + employeeID + `","leave_type":"EL","year":2026,"days":2}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-register/credit", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
