package rbac

import (
	"context"
	"sync"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/domain"
	rbacerrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadCompanyPolicy(ctx context.Context, companyID string) error
	Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error)

	ListRoles(ctx context.Context, companyID string) ([]domain.RoleResponse, error)
	GetRole(ctx context.Context, companyID, id string) (*domain.RoleResponse, error)
	CreateRole(ctx context.Context, companyID string, req domain.CreateRoleRequest) (*domain.RoleResponse, error)
	UpdateRole(ctx context.Context, companyID, id string, req domain.UpdateRoleRequest) (*domain.RoleResponse, error)
	DeleteRole(ctx context.Context, companyID, id string) error
	ListPermissions(ctx context.Context) ([]domain.PermissionResponse, error)

	AssignRoleToEmployee(ctx context.Context, companyID, employeeID, roleName string) error
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger

	// The enforcer holds one company's policy at a time, so every load
	// and enforce runs under the lock.
	mu sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadCompanyPolicy(ctx context.Context, companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCompanyPolicyUnlocked(ctx, companyID)
}

func (s *service) loadCompanyPolicyUnlocked(ctx context.Context, companyID string) error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles(ctx, companyID)
	if err != nil {
		return err
	}

	for _, er := range employeeRoles {
		_, err := s.enforcer.AddGroupingPolicy(
			er.EmployeeID,
			er.RoleID,
			companyID,
		)
		if err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(ctx, companyID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		_, err := s.enforcer.AddPolicy(
			rp.RoleID,
			companyID,
			rp.Resource,
			rp.Action,
		)
		if err != nil {
			return err
		}
	}

	s.logger.Debug("policy loaded",
		zap.String("company_id", companyID),
		zap.Int("employee_roles", len(employeeRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)

	return nil
}

func (s *service) Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Reload so grants made since the last request take effect immediately.
	if err := s.loadCompanyPolicyUnlocked(ctx, req.CompanyID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.EmployeeID,
		req.CompanyID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("company_id", req.CompanyID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("employee_id", req.EmployeeID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}

func (s *service) ListRoles(ctx context.Context, companyID string) ([]domain.RoleResponse, error) {
	rows, err := s.repo.ListRoles(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RoleResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := s.toRoleResponse(ctx, &row)
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

func (s *service) GetRole(ctx context.Context, companyID, id string) (*domain.RoleResponse, error) {
	row, err := s.findCompanyRole(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return s.toRoleResponse(ctx, row)
}

func (s *service) CreateRole(ctx context.Context, companyID string, req domain.CreateRoleRequest) (*domain.RoleResponse, error) {
	if existing, err := s.repo.GetRoleByName(ctx, companyID, req.Name); err == nil && existing != nil {
		return nil, rbacerrors.ErrRoleNameTaken
	}

	row := &RoleRow{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(ctx, row); err != nil {
		return nil, err
	}

	if len(req.Permissions) > 0 {
		if err := s.repo.UpdateRolePermissions(ctx, row.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	s.logger.Info("role created",
		zap.String("company_id", companyID),
		zap.String("role_id", row.ID),
		zap.String("name", row.Name),
	)

	return s.toRoleResponse(ctx, row)
}

func (s *service) UpdateRole(ctx context.Context, companyID, id string, req domain.UpdateRoleRequest) (*domain.RoleResponse, error) {
	row, err := s.findCompanyRole(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		row.Name = req.Name
	}
	if req.Description != "" {
		row.Description = req.Description
	}
	if err := s.repo.UpdateRole(ctx, row); err != nil {
		return nil, err
	}

	if req.Permissions != nil {
		if err := s.repo.UpdateRolePermissions(ctx, row.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	return s.toRoleResponse(ctx, row)
}

func (s *service) DeleteRole(ctx context.Context, companyID, id string) error {
	row, err := s.findCompanyRole(ctx, companyID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteRole(ctx, row.ID); err != nil {
		return err
	}

	s.logger.Info("role deleted",
		zap.String("company_id", companyID),
		zap.String("role_id", row.ID),
	)
	return nil
}

func (s *service) ListPermissions(ctx context.Context) ([]domain.PermissionResponse, error) {
	rows, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.PermissionResponse, 0, len(rows))
	for _, p := range rows {
		result = append(result, domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		})
	}
	return result, nil
}

// AssignRoleToEmployee grants a named role to an employee. The grant takes
// effect on the next enforce because policies reload per request.
func (s *service) AssignRoleToEmployee(ctx context.Context, companyID, employeeID, roleName string) error {
	row, err := s.repo.GetRoleByName(ctx, companyID, roleName)
	if err != nil || row == nil {
		return rbacerrors.ErrRoleNotFound
	}

	if err := s.repo.AssignEmployeeRole(ctx, employeeID, row.ID); err != nil {
		return err
	}

	s.logger.Info("role granted",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("role", roleName),
	)
	return nil
}

// findCompanyRole loads a role and hides roles belonging to other companies
// behind a plain not-found.
func (s *service) findCompanyRole(ctx context.Context, companyID, id string) (*RoleRow, error) {
	row, err := s.repo.GetRoleByID(ctx, id)
	if err != nil || row == nil || row.CompanyID != companyID {
		return nil, rbacerrors.ErrRoleNotFound
	}
	return row, nil
}

func (s *service) toRoleResponse(ctx context.Context, row *RoleRow) (*domain.RoleResponse, error) {
	perms, err := s.repo.GetPermissionsByRoleID(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	permIDs := make([]string, 0, len(perms))
	for _, p := range perms {
		permIDs = append(permIDs, p.ID)
	}

	return &domain.RoleResponse{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Permissions: permIDs,
	}, nil
}
