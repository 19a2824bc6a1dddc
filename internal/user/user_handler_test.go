package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/user"
	usererrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeUserService struct {
	GetAllFunc             func(ctx context.Context, companyID string) ([]user.UserResponse, error)
	GetAllWithRolesFunc    func(ctx context.Context, companyID string) ([]user.UserWithRolesResponse, error)
	GetByIDFunc            func(ctx context.Context, companyID, id string) (user.UserResponse, error)
	CreateFunc             func(ctx context.Context, companyID string, req user.CreateUserRequest) (user.UserResponse, error)
	AssignRoleFunc         func(ctx context.Context, companyID, userID, roleName string) error
	ToggleStatusFunc       func(ctx context.Context, companyID, id string, isActive bool) error
	ChangePasswordFunc     func(ctx context.Context, companyID, userID, currentPassword, newPassword string) error
	ResetPasswordFunc      func(ctx context.Context, companyID, userID, newPassword string) error
	ForceResetPasswordFunc func(ctx context.Context, companyID, userID, newPassword string) error
}

func (f *fakeUserService) GetAll(ctx context.Context, companyID string) ([]user.UserResponse, error) {
	if f.GetAllFunc != nil {
		return f.GetAllFunc(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeUserService) GetAllWithRoles(ctx context.Context, companyID string) ([]user.UserWithRolesResponse, error) {
	if f.GetAllWithRolesFunc != nil {
		return f.GetAllWithRolesFunc(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, companyID, id string) (user.UserResponse, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, companyID, id)
	}
	return user.UserResponse{}, usererrors.ErrUserNotFound
}

func (f *fakeUserService) Create(ctx context.Context, companyID string, req user.CreateUserRequest) (user.UserResponse, error) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, companyID, req)
	}
	return user.UserResponse{}, nil
}

func (f *fakeUserService) GetCompanyUsers(ctx context.Context, companyID string) ([]user.UserResponse, error) {
	return nil, nil
}

func (f *fakeUserService) AssignRole(ctx context.Context, companyID string, userID string, roleName string) error {
	if f.AssignRoleFunc != nil {
		return f.AssignRoleFunc(ctx, companyID, userID, roleName)
	}
	return nil
}

func (f *fakeUserService) ToggleStatus(ctx context.Context, companyID string, id string, isActive bool) error {
	if f.ToggleStatusFunc != nil {
		return f.ToggleStatusFunc(ctx, companyID, id, isActive)
	}
	return nil
}

func (f *fakeUserService) ChangePassword(ctx context.Context, companyID, userID, currentPassword, newPassword string) error {
	if f.ChangePasswordFunc != nil {
		return f.ChangePasswordFunc(ctx, companyID, userID, currentPassword, newPassword)
	}
	return nil
}

func (f *fakeUserService) ResetPassword(ctx context.Context, companyID, userID, newPassword string) error {
	if f.ResetPasswordFunc != nil {
		return f.ResetPasswordFunc(ctx, companyID, userID, newPassword)
	}
	return nil
}

func (f *fakeUserService) ForceResetPassword(ctx context.Context, companyID, userID, newPassword string) error {
	if f.ForceResetPasswordFunc != nil {
		return f.ForceResetPasswordFunc(ctx, companyID, userID, newPassword)
	}
	return nil
}

func newUserTestRouter(method, path string, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		c.Set("company_id", "company-1")
		c.Next()
	}, handler)
	return router
}

func TestUserHandler_GetAll(t *testing.T) {
	service := &fakeUserService{
		GetAllFunc: func(ctx context.Context, companyID string) ([]user.UserResponse, error) {
			return []user.UserResponse{
				{ID: "user-1", Email: "alice@mail.com", IsActive: true},
				{ID: "user-2", Email: "bob@mail.com", IsActive: true},
			}, nil
		},
	}
	handler := user.NewHandler(service)
	router := newUserTestRouter(http.MethodGet, "/users", handler.GetAll)

	t.Run("success - all users", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var res map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Len(t, res["data"], 2)
	})

	t.Run("success - filter by query q", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users?q=alice", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var res map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		data := res["data"].([]interface{})
		assert.Len(t, data, 1)
		assert.Equal(t, "alice@mail.com", data[0].(map[string]interface{})["email"])
	})

	t.Run("success - pagination meta", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users?page=1&page_size=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var res map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Len(t, res["data"], 1)
		meta := res["meta"].(map[string]interface{})
		assert.EqualValues(t, 2, meta["total"])
	})
}

func TestUserHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &fakeUserService{
			CreateFunc: func(ctx context.Context, companyID string, req user.CreateUserRequest) (user.UserResponse, error) {
				assert.Equal(t, "company-1", companyID)
				return user.UserResponse{ID: "user-1", Email: req.Email, IsActive: true}, nil
			},
		}
		handler := user.NewHandler(service)
		router := newUserTestRouter(http.MethodPost, "/users", handler.Create)

		body, _ := json.Marshal(user.CreateUserRequest{
			EmployeeID: "7b5bd9a4-3f9b-4dd3-9f2f-111111111111",
			Email:      "new@mail.com",
			Password:   "password123",
		})

		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("error - short password", func(t *testing.T) {
		handler := user.NewHandler(&fakeUserService{})
		router := newUserTestRouter(http.MethodPost, "/users", handler.Create)

		body := []byte(`{"employee_id": "7b5bd9a4-3f9b-4dd3-9f2f-111111111111", "email": "new@mail.com", "password": "short"}`)
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error - duplicate email", func(t *testing.T) {
		service := &fakeUserService{
			CreateFunc: func(ctx context.Context, companyID string, req user.CreateUserRequest) (user.UserResponse, error) {
				return user.UserResponse{}, usererrors.ErrUserAlreadyExists
			},
		}
		handler := user.NewHandler(service)
		router := newUserTestRouter(http.MethodPost, "/users", handler.Create)

		body, _ := json.Marshal(user.CreateUserRequest{
			EmployeeID: "7b5bd9a4-3f9b-4dd3-9f2f-111111111111",
			Email:      "dup@mail.com",
			Password:   "password123",
		})

		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUserHandler_ToggleStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotActive bool
		service := &fakeUserService{
			ToggleStatusFunc: func(ctx context.Context, companyID, id string, isActive bool) error {
				gotActive = isActive
				return nil
			},
		}
		handler := user.NewHandler(service)
		router := newUserTestRouter(http.MethodPatch, "/users/:id/status", handler.ToggleStatus)

		body := []byte(`{"is_active": false}`)
		req := httptest.NewRequest(http.MethodPatch, "/users/user-1/status", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, gotActive)
	})

	t.Run("error - missing body", func(t *testing.T) {
		handler := user.NewHandler(&fakeUserService{})
		router := newUserTestRouter(http.MethodPatch, "/users/:id/status", handler.ToggleStatus)

		req := httptest.NewRequest(http.MethodPatch, "/users/user-1/status", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_AssignRole(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotRole string
		service := &fakeUserService{
			AssignRoleFunc: func(ctx context.Context, companyID, userID, roleName string) error {
				gotRole = roleName
				return nil
			},
		}
		handler := user.NewHandler(service)
		router := newUserTestRouter(http.MethodPost, "/users/:id/roles", handler.AssignRole)

		body := []byte(`{"role_name": "Verifier"}`)
		req := httptest.NewRequest(http.MethodPost, "/users/user-1/roles", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Verifier", gotRole)
	})

	t.Run("error - missing role name", func(t *testing.T) {
		handler := user.NewHandler(&fakeUserService{})
		router := newUserTestRouter(http.MethodPost, "/users/:id/roles", handler.AssignRole)

		req := httptest.NewRequest(http.MethodPost, "/users/user-1/roles", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_ResetPassword(t *testing.T) {
	t.Run("error - user not found", func(t *testing.T) {
		service := &fakeUserService{
			ResetPasswordFunc: func(ctx context.Context, companyID, userID, newPassword string) error {
				return usererrors.ErrUserNotFound
			},
		}
		handler := user.NewHandler(service)
		router := newUserTestRouter(http.MethodPost, "/users/:id/reset-password", handler.ResetPassword)

		body := []byte(`{"new_password": "newpassword"}`)
		req := httptest.NewRequest(http.MethodPost, "/users/ghost/reset-password", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
