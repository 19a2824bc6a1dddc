package onduty

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=onduty_repo.go -destination=mock/onduty_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, od *OnDuty) error
	FindAllByCompany(ctx context.Context, companyID string) ([]OnDuty, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]OnDuty, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*OnDuty, error)
	Update(ctx context.Context, od *OnDuty) error
	Delete(ctx context.Context, companyID, id string) error
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	ReportingManagerOf(ctx context.Context, companyID, employeeID string) (string, error)
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, fromDate, toDate time.Time, excludeID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, od *OnDuty) error {
	return r.db.WithContext(ctx).Create(od).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]OnDuty, error) {
	var applications []OnDuty
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("from_date DESC").
		Find(&applications).Error
	return applications, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]OnDuty, error) {
	var applications []OnDuty
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Order("from_date DESC").
		Find(&applications).Error
	return applications, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*OnDuty, error) {
	var od OnDuty
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&od, "id = ?", id).Error
	return &od, err
}

func (r *repository) Update(ctx context.Context, od *OnDuty) error {
	return r.db.WithContext(ctx).Save(od).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&OnDuty{}, "id = ?", id).Error
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ReportingManagerOf(ctx context.Context, companyID, employeeID string) (string, error) {
	var managerID sql.NullString
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("reporting_manager_id::text").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Scan(&managerID).Error
	if err != nil {
		return "", err
	}
	return managerID.String, nil
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, fromDate, toDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&OnDuty{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status NOT IN ?", []string{"rejected", "cancelled"}).
		Where("NOT (to_date < ? OR from_date > ?)", fromDate, toDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
