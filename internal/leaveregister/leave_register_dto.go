package leaveregister

type CreditRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	LeaveType  string  `json:"leave_type" binding:"required"`
	Year       int     `json:"year" binding:"required,min=2000,max=2100"`
	Days       float64 `json:"days" binding:"required,gt=0"`
	Reason     string  `json:"reason"`
}

type ConsumptionRequest struct {
	LeaveID    string
	EmployeeID string
	LeaveType  string
	Year       int
	Days       float64
}

type RegisterResponse struct {
	EmployeeID string       `json:"employee_id"`
	Year       int          `json:"year"`
	Balances   []BalanceRow `json:"balances"`
}
