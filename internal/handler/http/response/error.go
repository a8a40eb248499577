package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/leave"
	"github.com/go-playground/validator/v10"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string)
		for _, fieldErr := range validationErrs {
			details[fieldErr.Field()] = "failed on the '" + fieldErr.Tag() + "' rule"
		}
		ValidationError(w, details)
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())

	// Not-found errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrAllocationNotFound):
		NotFound(w, "Leave allocation not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")

	// Business-rule violations
	case errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, leave.ErrInvalidTotalDays),
		errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrExceedsMaxDaysPerRequest),
		errors.Is(err, leave.ErrExceedsMaxConsecutiveDays),
		errors.Is(err, leave.ErrBlackoutPeriod),
		errors.Is(err, leave.ErrInsufficientNotice):
		BadRequest(w, err.Error(), nil)

	// Default: detail stays in the activity log, not in the response
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
