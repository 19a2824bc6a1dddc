package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

// LeaveFinalizedEvent is emitted through the outbox when a leave application
// reaches a terminal approval state. ConsumedDays carries the
// balance-consuming day count derived from the split plan so the register
// consumer never re-reads the splits.
type LeaveFinalizedEvent struct {
	EventType    string    `json:"event_type"`
	LeaveID      string    `json:"leave_id"`
	CompanyID    string    `json:"company_id"`
	EmployeeID   string    `json:"employee_id"`
	LeaveType    string    `json:"leave_type"`
	Status       string    `json:"status"`
	ConsumedDays float64   `json:"consumed_days"`
	Year         int       `json:"year"`
	OccurredAt   time.Time `json:"occurred_at"`
}

const (
	LeaveFinalizedApproved  = "leave_approved"
	LeaveFinalizedRejected  = "leave_rejected"
	LeaveFinalizedCancelled = "leave_cancelled"
	LeaveSplitsReplaced     = "leave_splits_replaced"
)
