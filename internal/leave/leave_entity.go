package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	ApplicationNumber string    `gorm:"type:varchar(20);not null"`
	LeaveType         string    `gorm:"type:varchar(30);not null;default:'CL'"`
	FromDate          time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	ToDate            time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	IsHalfDay         bool      `gorm:"not null;default:false"`
	HalfDayType       *string   `gorm:"type:varchar(15)"`
	NumberOfDays      float64   `gorm:"type:numeric(5,1);not null;default:1"`
	Reason            string    `gorm:"type:text"`

	Status             string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leaves_company_status"`
	ReportingManagerID *uuid.UUID `gorm:"type:uuid"`
	ApprovalChain      []byte     `gorm:"type:jsonb"`
	CreatedBy          uuid.UUID  `gorm:"type:uuid;not null"`
	RejectionReason    *string    `gorm:"type:text"`

	Splits []LeaveSplit `gorm:"foreignKey:LeaveID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leaves_deleted_at"`
}

func (Leave) TableName() string { return "leaves" }

// LeaveSplit is the persisted per-day outcome row. NumberOfDays is not
// stored; it is derived from IsHalfDay on the way out.
type LeaveSplit struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_splits_leave"`

	Date        time.Time `gorm:"type:date;not null"`
	LeaveType   string    `gorm:"type:varchar(30);not null"`
	LeaveNature string    `gorm:"type:varchar(15)"`
	IsHalfDay   bool      `gorm:"not null;default:false"`
	HalfDayType *string   `gorm:"type:varchar(15)"`
	Status      string    `gorm:"type:varchar(10);not null"`
	Notes       string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveSplit) TableName() string { return "leave_splits" }
