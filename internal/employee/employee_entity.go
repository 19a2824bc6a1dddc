package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	PositionID   *uuid.UUID `gorm:"type:uuid"`

	EmployeeNumber string `gorm:"type:varchar(20);uniqueIndex:uq_employee_number"`
	FullName       string
	Email          string `gorm:"uniqueIndex:uq_employee_email"`
	Phone          string
	HireDate       time.Time `gorm:"type:date"`

	// EmploymentStatus is the HR lifecycle state (active, probation,
	// resigned); Role is the approval-workflow role the account holds.
	EmploymentStatus   string     `gorm:"type:varchar(20);default:'active'"`
	Role               string     `gorm:"type:varchar(15);default:'employee'"`
	ReportingManagerID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string { return "employees" }
