package leave

import (
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leavesplit"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"
)

type CreateLeaveRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveType   string `json:"leave_type" binding:"required,oneof=CL SL EL LOP"`
	FromDate    string `json:"from_date" binding:"required"`
	ToDate      string `json:"to_date" binding:"required"`
	IsHalfDay   bool   `json:"is_half_day"`
	HalfDayType string `json:"half_day_type" binding:"omitempty,oneof=first_half second_half"`
	Reason      string `json:"reason"`
}

type ActionRequest struct {
	Notes string `json:"notes"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

// SplitPayload is the wire shape of one split row on save. number_of_days is
// deliberately absent: it is a derived display field, never trusted from the
// client.
type SplitPayload struct {
	Date        string  `json:"date" binding:"required"`
	LeaveType   string  `json:"leave_type" binding:"required"`
	LeaveNature string  `json:"leave_nature" binding:"omitempty,oneof=paid lop without_pay"`
	IsHalfDay   bool    `json:"is_half_day"`
	HalfDayType *string `json:"half_day_type" binding:"omitempty,oneof=first_half second_half"`
	Status      string  `json:"status" binding:"required,oneof=approved rejected"`
	Notes       string  `json:"notes"`
}

type ReplaceSplitsRequest struct {
	Splits []SplitPayload `json:"splits" binding:"required,min=1,dive"`
}

type WorkflowResponse struct {
	Status           string          `json:"status"`
	NextApproverRole string          `json:"next_approver_role,omitempty"`
	ApprovalChain    []workflow.Step `json:"approval_chain"`
}

type LeaveResponse struct {
	ID                string             `json:"id"`
	CompanyID         string             `json:"company_id"`
	EmployeeID        string             `json:"employee_id"`
	ApplicationNumber string             `json:"application_number"`
	LeaveType         string             `json:"leave_type"`
	FromDate          string             `json:"from_date"`
	ToDate            string             `json:"to_date"`
	IsHalfDay         bool               `json:"is_half_day"`
	HalfDayType       *string            `json:"half_day_type,omitempty"`
	NumberOfDays      float64            `json:"number_of_days"`
	Reason            string             `json:"reason"`
	Workflow          WorkflowResponse   `json:"workflow"`
	CreatedBy         string             `json:"created_by"`
	RejectionReason   *string            `json:"rejection_reason,omitempty"`
	Splits            []leavesplit.Split `json:"splits,omitempty"`
}
