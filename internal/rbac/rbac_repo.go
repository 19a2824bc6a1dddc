package rbac

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error)
	GetRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error)

	ListRoles(ctx context.Context, companyID string) ([]RoleRow, error)
	GetRoleByID(ctx context.Context, id string) (*RoleRow, error)
	GetRoleByName(ctx context.Context, companyID, name string) (*RoleRow, error)
	CreateRole(ctx context.Context, role *RoleRow) error
	UpdateRole(ctx context.Context, role *RoleRow) error
	DeleteRole(ctx context.Context, id string) error

	AssignEmployeeRole(ctx context.Context, employeeID, roleID string) error

	ListPermissions(ctx context.Context) ([]PermissionRow, error)
	GetPermissionsByRoleID(ctx context.Context, roleID string) ([]PermissionRow, error)
	UpdateRolePermissions(ctx context.Context, roleID string, permIDs []string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type RoleRow struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID   string `gorm:"type:uuid"`
	Name        string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

func (RoleRow) TableName() string { return "roles" }

type PermissionRow struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Resource string
	Action   string
	Label    string
	Category string
}

func (PermissionRow) TableName() string { return "permissions" }

type EmployeeRoleRow struct {
	EmployeeID string
	RoleID     string
}

type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

func (r *repository) GetEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error) {
	var result []EmployeeRoleRow

	err := r.db.WithContext(ctx).
		Table("employee_roles").
		Select("employee_roles.employee_id, employee_roles.role_id").
		Joins("JOIN roles ON roles.id = employee_roles.role_id").
		Where("roles.company_id = ?", companyID).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.WithContext(ctx).
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("roles.company_id = ?", companyID).
		Scan(&result).Error

	return result, err
}

func (r *repository) ListRoles(ctx context.Context, companyID string) ([]RoleRow, error) {
	var result []RoleRow
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("name ASC").Find(&result).Error
	return result, err
}

func (r *repository) GetRoleByID(ctx context.Context, id string) (*RoleRow, error) {
	var result RoleRow
	err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *repository) GetRoleByName(ctx context.Context, companyID, name string) (*RoleRow, error) {
	var result RoleRow
	err := r.db.WithContext(ctx).Where("company_id = ? AND name = ?", companyID, name).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *repository) CreateRole(ctx context.Context, role *RoleRow) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *repository) UpdateRole(ctx context.Context, role *RoleRow) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *repository) DeleteRole(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&RoleRow{}, "id = ?", id).Error
}

func (r *repository) AssignEmployeeRole(ctx context.Context, employeeID, roleID string) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO employee_roles (employee_id, role_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		employeeID, roleID,
	).Error
}

func (r *repository) ListPermissions(ctx context.Context) ([]PermissionRow, error) {
	var result []PermissionRow
	err := r.db.WithContext(ctx).Order("category, label").Find(&result).Error
	return result, err
}

func (r *repository) GetPermissionsByRoleID(ctx context.Context, roleID string) ([]PermissionRow, error) {
	var result []PermissionRow
	err := r.db.WithContext(ctx).
		Table("permissions").
		Select("permissions.*").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Scan(&result).Error
	return result, err
}

func (r *repository) UpdateRolePermissions(ctx context.Context, roleID string, permIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", roleID).Error; err != nil {
			return err
		}

		for _, pID := range permIDs {
			if err := tx.Exec("INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)", roleID, pID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
