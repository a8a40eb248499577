package user

import "time"

// User is an application login account. Admins maintain reference data;
// regular accounts are linked to an employee record.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
	EmployeeID   *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
