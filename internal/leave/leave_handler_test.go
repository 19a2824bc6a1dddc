package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leave"
	leaveerrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leave/errors"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leavesplit"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn         func(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getAllFn         func(ctx context.Context, companyID string) ([]leave.LeaveResponse, error)
	getByIDFn        func(ctx context.Context, companyID, id string) (leave.LeaveResponse, error)
	performActionFn  func(ctx context.Context, companyID string, actor workflow.Actor, id string, action workflow.Action, notes string) (leave.LeaveResponse, error)
	getSplitDraftFn  func(ctx context.Context, companyID, id string) ([]leavesplit.Split, error)
	validateSplitsFn func(ctx context.Context, companyID, id string, req leave.ReplaceSplitsRequest) (leavesplit.ValidationResult, error)
	replaceSplitsFn  func(ctx context.Context, companyID string, actor workflow.Actor, id string, req leave.ReplaceSplitsRequest) (leave.LeaveResponse, error)
	deleteFn         func(ctx context.Context, companyID, id string) error
}

func (f *fakeLeaveService) Create(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, companyID, actorID, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, companyID string) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, companyID)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, companyID, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, companyID, id)
}
func (f *fakeLeaveService) PerformAction(ctx context.Context, companyID string, actor workflow.Actor, id string, action workflow.Action, notes string) (leave.LeaveResponse, error) {
	return f.performActionFn(ctx, companyID, actor, id, action, notes)
}
func (f *fakeLeaveService) GetSplitDraft(ctx context.Context, companyID, id string) ([]leavesplit.Split, error) {
	return f.getSplitDraftFn(ctx, companyID, id)
}
func (f *fakeLeaveService) ValidateSplits(ctx context.Context, companyID, id string, req leave.ReplaceSplitsRequest) (leavesplit.ValidationResult, error) {
	return f.validateSplitsFn(ctx, companyID, id, req)
}
func (f *fakeLeaveService) ReplaceSplits(ctx context.Context, companyID string, actor workflow.Actor, id string, req leave.ReplaceSplitsRequest) (leave.LeaveResponse, error) {
	return f.replaceSplitsFn(ctx, companyID, actor, id, req)
}
func (f *fakeLeaveService) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func newTestContext(t *testing.T, method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		companyID := uuid.New().String()
		actorID := uuid.New().String()
		employeeID := uuid.New().String()

		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, cid, aid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, actorID, aid)
				assert.Equal(t, employeeID, req.EmployeeID)
				return leave.LeaveResponse{
					ID:           uuid.New().String(),
					CompanyID:    cid,
					EmployeeID:   req.EmployeeID,
					LeaveType:    req.LeaveType,
					FromDate:     req.FromDate,
					ToDate:       req.ToDate,
					NumberOfDays: 2,
					CreatedBy:    aid,
					Workflow: leave.WorkflowResponse{
						Status:           "pending",
						NextApproverRole: "verifier",
					},
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		body := `{"employee_id":"` + employeeID + `","leave_type":"CL","from_date":"2026-03-10","to_date":"2026-03-11","reason":"Family matters"}`
		c, w := newTestContext(t, http.MethodPost, "/leaves", body)
		c.Set("company_id", companyID)
		c.Set("employee_id", actorID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, employeeID, got.EmployeeID)
		assert.Equal(t, "pending", got.Workflow.Status)
		assert.Equal(t, "verifier", got.Workflow.NextApproverRole)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newTestContext(t, http.MethodPost, "/leaves", `{}`)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		}
	})

	t.Run("negative bad leave type", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		body := `{"employee_id":"` + uuid.New().String() + `","leave_type":"HOLIDAY","from_date":"2026-03-10","to_date":"2026-03-11"}`
		c, w := newTestContext(t, http.MethodPost, "/leaves", body)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative overlap maps to conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, cid, aid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}
		h := leave.NewHandler(svc)
		body := `{"employee_id":"` + uuid.New().String() + `","leave_type":"CL","from_date":"2026-03-10","to_date":"2026-03-11"}`
		c, w := newTestContext(t, http.MethodPost, "/leaves", body)

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})
}

func TestLeaveHandler_Actions(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	leaveID := uuid.New().String()

	t.Run("approve forwards actor and action", func(t *testing.T) {
		svc := &fakeLeaveService{
			performActionFn: func(ctx context.Context, cid string, actor workflow.Actor, id string, action workflow.Action, notes string) (leave.LeaveResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, actorID, actor.EmployeeID)
				assert.Equal(t, workflow.RoleHR, actor.Role)
				assert.Equal(t, leaveID, id)
				assert.Equal(t, workflow.ActionApprove, action)
				assert.Equal(t, "looks fine", notes)
				return leave.LeaveResponse{ID: id, Workflow: leave.WorkflowResponse{Status: "approved"}}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/approve", `{"notes":"looks fine"}`)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("company_id", companyID)
		c.Set("employee_id", actorID)
		c.Set("role", "hr")

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/reject", `{}`)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reject forwards reason as notes", func(t *testing.T) {
		svc := &fakeLeaveService{
			performActionFn: func(ctx context.Context, cid string, actor workflow.Actor, id string, action workflow.Action, notes string) (leave.LeaveResponse, error) {
				assert.Equal(t, workflow.ActionReject, action)
				assert.Equal(t, "policy violation", notes)
				return leave.LeaveResponse{ID: id, Workflow: leave.WorkflowResponse{Status: "rejected"}}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/reject", `{"rejection_reason":"policy violation"}`)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("company_id", companyID)
		c.Set("employee_id", actorID)
		c.Set("role", "hr")

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative forbidden action", func(t *testing.T) {
		svc := &fakeLeaveService{
			performActionFn: func(ctx context.Context, cid string, actor workflow.Actor, id string, action workflow.Action, notes string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrActionNotAllowed
			},
		}
		h := leave.NewHandler(svc)
		c, w := newTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/cancel", ``)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Cancel(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_Splits(t *testing.T) {
	companyID := uuid.New().String()
	leaveID := uuid.New().String()

	t.Run("draft returns splits", func(t *testing.T) {
		svc := &fakeLeaveService{
			getSplitDraftFn: func(ctx context.Context, cid, id string) ([]leavesplit.Split, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, leaveID, id)
				return []leavesplit.Split{
					{Date: "2026-03-10", LeaveType: "CL", Status: "approved", NumberOfDays: 1},
					{Date: "2026-03-11", LeaveType: "CL", Status: "approved", NumberOfDays: 1},
				}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newTestContext(t, http.MethodGet, "/leaves/"+leaveID+"/splits/draft", "")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("company_id", companyID)

		h.GetSplitDraft(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got struct {
			Splits []leavesplit.Split `json:"splits"`
		}
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got.Splits, 2)
	})

	t.Run("validate returns result payload", func(t *testing.T) {
		svc := &fakeLeaveService{
			validateSplitsFn: func(ctx context.Context, cid, id string, req leave.ReplaceSplitsRequest) (leavesplit.ValidationResult, error) {
				return leavesplit.ValidationResult{
					IsValid:  false,
					Errors:   []string{"split 1: date 2026-04-01 is outside the application range"},
					Warnings: []string{},
				}, nil
			},
		}
		h := leave.NewHandler(svc)
		body := `{"splits":[{"date":"2026-04-01","leave_type":"CL","status":"approved"}]}`
		c, w := newTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/splits/validate", body)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("company_id", companyID)

		h.ValidateSplits(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got leavesplit.ValidationResult
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.False(t, got.IsValid)
		assert.Len(t, got.Errors, 1)
	})

	t.Run("negative replace with empty splits", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newTestContext(t, http.MethodPut, "/leaves/"+leaveID+"/splits", `{"splits":[]}`)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.ReplaceSplits(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("replace success", func(t *testing.T) {
		svc := &fakeLeaveService{
			replaceSplitsFn: func(ctx context.Context, cid string, actor workflow.Actor, id string, req leave.ReplaceSplitsRequest) (leave.LeaveResponse, error) {
				assert.Len(t, req.Splits, 1)
				return leave.LeaveResponse{ID: id}, nil
			},
		}
		h := leave.NewHandler(svc)
		body := `{"splits":[{"date":"2026-03-10","leave_type":"CL","status":"approved"}]}`
		c, w := newTestContext(t, http.MethodPut, "/leaves/"+leaveID+"/splits", body)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("company_id", companyID)
		c.Set("employee_id", uuid.New().String())
		c.Set("role", "hr")

		h.ReplaceSplits(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_GetByID(t *testing.T) {
	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			getByIDFn: func(ctx context.Context, cid, id string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}
		h := leave.NewHandler(svc)
		c, w := newTestContext(t, http.MethodGet, "/leaves/"+uuid.New().String(), "")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
