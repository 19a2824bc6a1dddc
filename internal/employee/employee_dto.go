package employee

import "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/ref"

type CreateEmployeeRequest struct {
	FullName           string `json:"full_name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone"`
	PositionID         string `json:"position_id" binding:"required,uuid"`
	EmployeeNumber     string `json:"employee_number"`
	HireDate           string `json:"hire_date" binding:"required"`
	EmploymentStatus   string `json:"employment_status" binding:"omitempty,oneof=active probation resigned"`
	Role               string `json:"role" binding:"omitempty,oneof=employee verifier hod hr admin"`
	ReportingManagerID string `json:"reporting_manager_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	FullName           string `json:"full_name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone"`
	PositionID         string `json:"position_id" binding:"required,uuid"`
	EmployeeNumber     string `json:"employee_number"`
	HireDate           string `json:"hire_date" binding:"required"`
	EmploymentStatus   string `json:"employment_status" binding:"omitempty,oneof=active probation resigned"`
	Role               string `json:"role" binding:"omitempty,oneof=employee verifier hod hr admin"`
	ReportingManagerID string `json:"reporting_manager_id" binding:"omitempty,uuid"`
}

// DepartmentRef is the populated shape of an expanded department reference.
type DepartmentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (d DepartmentRef) RefID() string { return d.ID }

// ManagerRef is the populated shape of an expanded reporting-manager
// reference.
type ManagerRef struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

func (m ManagerRef) RefID() string { return m.ID }

type EmployeeResponse struct {
	ID               string `json:"id"`
	EmployeeNumber   string `json:"employee_number"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	CompanyID        string `json:"company_id"`
	PositionID       string `json:"position_id,omitempty"`
	HireDate         string `json:"hire_date,omitempty"`
	EmploymentStatus string `json:"employment_status,omitempty"`
	Role             string `json:"role,omitempty"`

	// Department and ReportingManager serialize as a bare id unless the
	// endpoint expanded them into objects.
	Department       ref.Ref[DepartmentRef] `json:"department,omitempty"`
	ReportingManager ref.Ref[ManagerRef]    `json:"reporting_manager,omitempty"`
}
