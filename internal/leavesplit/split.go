// Package leavesplit builds and reconciles per-day leave outcome plans.
// A multi-day leave application is not always approved uniformly; HR can
// split it into one outcome per calendar day (approve some days, reject
// others, mark days as loss-of-pay). Everything here is a pure in-memory
// transformation; persistence lives in the leave package.
package leavesplit

const (
	HalfDayFirst  = "first_half"
	HalfDaySecond = "second_half"

	NaturePaid       = "paid"
	NatureLOP        = "lop"
	NatureWithoutPay = "without_pay"

	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Split is one calendar day's outcome within a leave application.
type Split struct {
	ID           string  `json:"id,omitempty"`
	Date         string  `json:"date"` // YYYY-MM-DD
	LeaveType    string  `json:"leave_type"`
	LeaveNature  string  `json:"leave_nature,omitempty"`
	IsHalfDay    bool    `json:"is_half_day"`
	HalfDayType  *string `json:"half_day_type"`
	Status       string  `json:"status"`
	NumberOfDays float64 `json:"number_of_days"`
	Notes        string  `json:"notes,omitempty"`
}

// Application is the slice of a leave application the planner needs: the
// approved date range, the applied leave type, the single-day half-day
// flags, and any previously persisted splits.
type Application struct {
	FromDate    string
	ToDate      string
	LeaveType   string
	IsHalfDay   bool
	HalfDayType string
	Splits      []Split
}

// Changes is a partial update applied to one draft row. Nil fields are
// left untouched.
type Changes struct {
	LeaveType   *string
	LeaveNature *string
	IsHalfDay   *bool
	HalfDayType *string
	Status      *string
	Notes       *string
}

// Dropped records a candidate split discarded during reconciliation,
// so callers can surface what was thrown away instead of losing it silently.
type Dropped struct {
	Split  Split
	Reason string
}

const (
	DropBadDate    = "bad_date"
	DropOutOfRange = "out_of_range"
	DropDuplicate  = "duplicate_key"
)

func days(isHalfDay bool) float64 {
	if isHalfDay {
		return 0.5
	}
	return 1
}

func strptr(s string) *string { return &s }
