package leaveregister

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is one employee's entitlement row for a leave type and year.
// Used days are not stored here; they are derived from consumption entries
// so that re-splitting an application can change its cost without drift.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_scope,priority:1"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_scope,priority:2"`
	LeaveType  string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_balance_scope,priority:3"`
	Year       int       `gorm:"not null;uniqueIndex:uq_balance_scope,priority:4"`

	OpeningDays float64 `gorm:"type:numeric(6,1);not null;default:0"`
	AccruedDays float64 `gorm:"type:numeric(6,1);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string { return "leave_balances" }

// ConsumptionEntry records the balance cost of one finalized leave
// application. One row per leave id; replacing an application's splits
// updates the row in place.
type ConsumptionEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_consumption_scope"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_consumption_scope"`
	LeaveID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_consumption_leave"`
	LeaveType  string    `gorm:"type:varchar(30);not null"`
	Year       int       `gorm:"not null"`
	Days       float64   `gorm:"type:numeric(6,1);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ConsumptionEntry) TableName() string { return "leave_consumption_entries" }
