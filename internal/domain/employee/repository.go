package employee

import (
	"context"

	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
)

// EmployeeRepository - read-only view of the employees table
type EmployeeRepository interface {
	GetByID(ctx context.Context, q database.Querier, id int64) (Employee, error)
}
