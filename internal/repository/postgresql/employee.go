package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct{}

func NewEmployeeRepository() employee.EmployeeRepository {
	return &employeeRepositoryImpl{}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, q database.Querier, id int64) (employee.Employee, error) {
	query := `
		SELECT id, employee_type, full_name, is_active, created_at, updated_at
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID,
		&emp.EmployeeType,
		&emp.FullName,
		&emp.IsActive,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}

	return emp, nil
}
