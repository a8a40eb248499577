package activitylog

import "time"

const (
	ActionCreateLeave = "CREATE_LEAVE"

	EntityLeave = "LEAVE"
)

// Entry is a write-only audit record of one business operation. Created
// once per use-case invocation, success or failure, never updated.
type Entry struct {
	ID          int64
	Action      string
	Entity      string
	UserID      string
	Details     string // JSON payload of the operation input
	Description string

	IPAddress *string
	UserAgent *string
	SessionID *string
	Username  *string

	IsSuccess    bool
	StatusCode   int
	ErrorMessage *string

	CreatedBy string
	CreatedAt time.Time
}
