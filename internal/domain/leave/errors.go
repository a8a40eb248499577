package leave

import "errors"

var (
	ErrLeaveTypeNotFound    = errors.New("Leave type not found")
	ErrAllocationNotFound   = errors.New("Leave allocation not found")
	ErrLeaveRequestNotFound = errors.New("Leave request not found")

	ErrInvalidDateRange          = errors.New("End date must not be before start date")
	ErrInvalidTotalDays          = errors.New("Total days must be greater than zero")
	ErrOverlappingLeave          = errors.New("Overlapping leave request exists")
	ErrInsufficientBalance       = errors.New("Insufficient leave balance")
	ErrExceedsMaxDaysPerRequest  = errors.New("Request exceeds maximum days per request")
	ErrExceedsMaxConsecutiveDays = errors.New("Request exceeds maximum consecutive days")
	ErrBlackoutPeriod            = errors.New("Requested dates fall within a blackout period")
	ErrInsufficientNotice        = errors.New("Insufficient notice for requested start date")
)
