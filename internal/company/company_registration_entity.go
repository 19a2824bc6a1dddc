package company

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationType names a statutory company identifier. The set covers the
// jurisdictions our tenants operate in.
type RegistrationType string

const (
	RegistrationTypePAN   RegistrationType = "PAN"
	RegistrationTypeTAN   RegistrationType = "TAN"
	RegistrationTypeGSTIN RegistrationType = "GSTIN"
	RegistrationTypeCIN   RegistrationType = "CIN"
	RegistrationTypeEIN   RegistrationType = "EIN"
	RegistrationTypeUEN   RegistrationType = "UEN"
)

// CompanyRegistration keeps one row per company and registration type.
type CompanyRegistration struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type      RegistrationType `gorm:"type:registration_type;not null"`
	Number    string           `gorm:"type:varchar(100);not null"`
	IssuedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
