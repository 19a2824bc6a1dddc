package leaveregister

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceRow is the register projection: entitlement plus derived usage.
type BalanceRow struct {
	EmployeeID  string  `json:"employee_id"`
	LeaveType   string  `json:"leave_type"`
	Year        int     `json:"year"`
	OpeningDays float64 `json:"opening_days"`
	AccruedDays float64 `json:"accrued_days"`
	UsedDays    float64 `json:"used_days"`
	BalanceDays float64 `json:"balance_days"`
}

//go:generate mockgen -source=leave_register_repo.go -destination=mock/leave_register_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateBalance(ctx context.Context, b *LeaveBalance) error
	FindBalance(ctx context.Context, companyID, employeeID, leaveType string, year int) (*LeaveBalance, error)
	AddAccrued(ctx context.Context, companyID, employeeID, leaveType string, year int, days float64) error
	UpsertConsumption(ctx context.Context, e *ConsumptionEntry) error
	FindRegister(ctx context.Context, companyID, employeeID string, year int) ([]BalanceRow, error)
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

func (r *repository) CreateBalance(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindBalance(ctx context.Context, companyID, employeeID, leaveType string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) AddAccrued(ctx context.Context, companyID, employeeID, leaveType string, year int, days float64) error {
	return r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		Update("accrued_days", gorm.Expr("accrued_days + ?", days)).Error
}

func (r *repository) UpsertConsumption(ctx context.Context, e *ConsumptionEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "leave_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"days", "leave_type", "year", "updated_at"}),
		}).
		Create(e).Error
}

func (r *repository) FindRegister(ctx context.Context, companyID, employeeID string, year int) ([]BalanceRow, error) {
	var rows []BalanceRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			b.employee_id::text AS employee_id,
			b.leave_type,
			b.year,
			b.opening_days,
			b.accrued_days,
			COALESCE(u.used, 0) AS used_days,
			b.opening_days + b.accrued_days - COALESCE(u.used, 0) AS balance_days
		FROM leave_balances b
		LEFT JOIN (
			SELECT employee_id, leave_type, year, SUM(days) AS used
			FROM leave_consumption_entries
			WHERE company_id = ?
			GROUP BY employee_id, leave_type, year
		) u ON u.employee_id = b.employee_id
			AND u.leave_type = b.leave_type
			AND u.year = b.year
		WHERE b.company_id = ?
			AND b.employee_id = ?
			AND b.year = ?
		ORDER BY b.leave_type ASC
	`, companyID, companyID, employeeID, year).Scan(&rows).Error
	return rows, err
}
