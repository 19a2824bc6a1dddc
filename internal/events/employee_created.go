package events

import "time"

const EmployeeCreatedTopic = "hr.employee.lifecycle.v1"

// EmployeeCreatedEvent announces a new hire. HireDate lets the register
// consumer seed balances for the correct year without a lookup.
type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	HireDate   string    `json:"hire_date,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
