package position

import (
	"context"
	"database/sql"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=position_repo.go -destination=mock/position_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, pos *Position) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Position, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Position, error)
	Update(ctx context.Context, pos *Position) error
	Delete(ctx context.Context, companyID string, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, pos *Position) error {
	return r.db.WithContext(ctx).Create(pos).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Position, error) {
	var positions []Position
	err := r.db.WithContext(ctx).
		Preload("Department").
		Scopes(tenant.Scope(companyID)).
		Find(&positions).Error
	return positions, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Position, error) {
	var pos Position
	err := r.db.WithContext(ctx).
		Preload("Department").
		Scopes(tenant.Scope(companyID)).
		First(&pos, "id = ?", id).Error
	return &pos, err
}

func (r *repository) Update(ctx context.Context, pos *Position) error {
	// Omit keeps the preloaded Department association from being saved back.
	return r.db.WithContext(ctx).Omit("Department").Save(pos).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Position{}, "id = ?", id).Error
}
