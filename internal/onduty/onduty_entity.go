package onduty

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OnDuty is an application to work outside the office (client visit, field
// assignment). It carries evidence fields attendance cannot: where the
// employee will be and, once submitted from the field, a photo proof.
type OnDuty struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_onduty_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_onduty_employee_dates"`

	ApplicationNumber string    `gorm:"type:varchar(20);not null"`
	FromDate          time.Time `gorm:"type:date;not null;index:idx_onduty_employee_dates"`
	ToDate            time.Time `gorm:"type:date;not null;index:idx_onduty_employee_dates"`
	Purpose           string    `gorm:"type:text;not null"`
	Place             string    `gorm:"type:varchar(200);not null"`

	PhotoURL  *string  `gorm:"type:text"`
	Latitude  *float64 `gorm:"column:latitude"`
	Longitude *float64 `gorm:"column:longitude"`

	Status             string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_onduty_company_status"`
	ReportingManagerID *uuid.UUID `gorm:"type:uuid"`
	ApprovalChain      []byte     `gorm:"type:jsonb"`
	CreatedBy          uuid.UUID  `gorm:"type:uuid;not null"`
	RejectionReason    *string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_onduty_deleted_at"`
}

func (OnDuty) TableName() string { return "onduty_applications" }
