package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveTypeRepositoryImpl struct{}

func NewLeaveTypeRepository() leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{}
}

func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, q database.Querier, id int64) (leave.LeaveType, error) {
	query := `
		SELECT id, name, code, category, is_paid, is_accruable,
			   requires_approval, requires_documentation, can_be_carried_over,
			   is_active, created_by, updated_by, created_at, updated_at
		FROM leave_types
		WHERE id = $1
	`

	var lt leave.LeaveType
	err := q.QueryRow(ctx, query, id).Scan(
		&lt.ID,
		&lt.Name,
		&lt.Code,
		&lt.Category,
		&lt.IsPaid,
		&lt.IsAccruable,
		&lt.RequiresApproval,
		&lt.RequiresDocumentation,
		&lt.CanBeCarriedOver,
		&lt.IsActive,
		&lt.CreatedBy,
		&lt.UpdatedBy,
		&lt.CreatedAt,
		&lt.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, err
	}

	return lt, nil
}

func (r *leaveTypeRepositoryImpl) List(ctx context.Context, q database.Querier) ([]leave.LeaveType, error) {
	query := `
		SELECT id, name, code, category, is_paid, is_accruable,
			   requires_approval, requires_documentation, can_be_carried_over,
			   is_active, created_by, updated_by, created_at, updated_at
		FROM leave_types
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		var lt leave.LeaveType
		err := rows.Scan(
			&lt.ID,
			&lt.Name,
			&lt.Code,
			&lt.Category,
			&lt.IsPaid,
			&lt.IsAccruable,
			&lt.RequiresApproval,
			&lt.RequiresDocumentation,
			&lt.CanBeCarriedOver,
			&lt.IsActive,
			&lt.CreatedBy,
			&lt.UpdatedBy,
			&lt.CreatedAt,
			&lt.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}

	return types, rows.Err()
}
