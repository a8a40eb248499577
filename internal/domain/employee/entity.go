package employee

import "time"

// Employee is the 201-file referent the leave engine needs: an id to hang
// requests on and an employee type for policy lookup. The full profile is
// owned by the employee CRUD modules.
type Employee struct {
	ID           int64
	EmployeeType string // 'regular', 'probationary', 'contractual', ...
	FullName     string
	IsActive     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
