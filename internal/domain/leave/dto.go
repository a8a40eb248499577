package leave

import "time"

// CreateLeaveCommand is the use-case input after boundary parsing.
type CreateLeaveCommand struct {
	EmployeeID  int64
	LeaveTypeID int64
	StartDate   time.Time
	EndDate     time.Time
	Reason      string
	TotalDays   float64
	CutoffYear  int
}

// RequestMetadata carries HTTP request context into the activity log.
// A nil *RequestMetadata means every field is recorded as NULL.
type RequestMetadata struct {
	IPAddress string
	UserAgent string
	SessionID string
	Username  string
}

// CreateLeaveRequest is the HTTP request body for creating a leave request.
type CreateLeaveRequest struct {
	EmployeeID  int64   `json:"employee_id" validate:"required,gt=0"`
	LeaveTypeID int64   `json:"leave_type_id" validate:"required,gt=0"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason      string  `json:"reason,omitempty"`
	TotalDays   float64 `json:"total_days" validate:"required,gt=0"`
	CutoffYear  int     `json:"cutoff_year" validate:"required,gte=2000"`
}

// ToCommand converts the parsed body into a command. Dates are validated
// by the request validator before this is called.
func (r CreateLeaveRequest) ToCommand() (CreateLeaveCommand, error) {
	startDate, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return CreateLeaveCommand{}, err
	}
	endDate, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return CreateLeaveCommand{}, err
	}
	return CreateLeaveCommand{
		EmployeeID:  r.EmployeeID,
		LeaveTypeID: r.LeaveTypeID,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      r.Reason,
		TotalDays:   r.TotalDays,
		CutoffYear:  r.CutoffYear,
	}, nil
}

// LeaveFilter narrows employee leave listings.
type LeaveFilter struct {
	Status    *string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}
