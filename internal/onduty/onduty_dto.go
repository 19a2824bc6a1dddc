package onduty

import "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"

type CreateOnDutyRequest struct {
	EmployeeID string   `json:"employee_id" binding:"required,uuid"`
	FromDate   string   `json:"from_date" binding:"required"`
	ToDate     string   `json:"to_date" binding:"required"`
	Purpose    string   `json:"purpose" binding:"required"`
	Place      string   `json:"place" binding:"required"`
	PhotoURL   *string  `json:"photo_url" binding:"omitempty,url"`
	Latitude   *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude  *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

type ActionRequest struct {
	Notes string `json:"notes"`
}

type RejectOnDutyRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type WorkflowResponse struct {
	Status           string          `json:"status"`
	NextApproverRole string          `json:"next_approver_role,omitempty"`
	ApprovalChain    []workflow.Step `json:"approval_chain"`
}

type OnDutyResponse struct {
	ID                string           `json:"id"`
	CompanyID         string           `json:"company_id"`
	EmployeeID        string           `json:"employee_id"`
	ApplicationNumber string           `json:"application_number"`
	FromDate          string           `json:"from_date"`
	ToDate            string           `json:"to_date"`
	Purpose           string           `json:"purpose"`
	Place             string           `json:"place"`
	PhotoURL          *string          `json:"photo_url,omitempty"`
	Latitude          *float64         `json:"latitude,omitempty"`
	Longitude         *float64         `json:"longitude,omitempty"`
	Workflow          WorkflowResponse `json:"workflow"`
	CreatedBy         string           `json:"created_by"`
	RejectionReason   *string          `json:"rejection_reason,omitempty"`
}
