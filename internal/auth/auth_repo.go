package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return &user, err
	}
	if err := r.resolveEffectiveRole(ctx, &user); err != nil {
		return &user, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return &user, err
	}
	if err := r.resolveEffectiveRole(ctx, &user); err != nil {
		return &user, err
	}
	return &user, nil
}

// resolveEffectiveRole overwrites user.Role with the role recorded on the
// linked employee row. The employee record is the source of truth for
// approval roles; the users table only keeps a fallback for accounts that
// are not linked to an employee yet.
func (r *repository) resolveEffectiveRole(ctx context.Context, user *User) error {
	normalize := func(role string) string {
		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" {
			role = "employee"
		}
		return role
	}

	if user.EmployeeID == nil || *user.EmployeeID == uuid.Nil {
		user.Role = normalize(user.Role)
		return nil
	}

	var roleName string
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("role").
		Where("id = ?", *user.EmployeeID).
		Where("company_id = ?", user.CompanyID).
		Limit(1).
		Scan(&roleName).Error
	if err != nil {
		return err
	}

	if strings.TrimSpace(roleName) == "" {
		roleName = user.Role
	}
	user.Role = normalize(roleName)
	return nil
}
