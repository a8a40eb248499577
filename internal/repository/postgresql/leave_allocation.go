package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveAllocationRepositoryImpl struct{}

func NewLeaveAllocationRepository() leave.LeaveAllocationRepository {
	return &leaveAllocationRepositoryImpl{}
}

// GetByEmployeeAndLeaveType locks the returned rows for update. Inside a
// transaction this serializes concurrent balance checks for the same
// employee and leave type, so two requests cannot both spend the last days.
func (r *leaveAllocationRepositoryImpl) GetByEmployeeAndLeaveType(ctx context.Context, q database.Querier, employeeID, leaveTypeID int64) ([]leave.LeaveAllocation, error) {
	query := `
		SELECT id, employee_id, leave_type_id, cutoff_year,
			   allocated_days, used_days, carry_over_days, expired_days,
			   period_status, cutoff_start_date, cutoff_end_date,
			   created_at, updated_at
		FROM leave_allocations
		WHERE employee_id = $1 AND leave_type_id = $2
		ORDER BY cutoff_year DESC
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, employeeID, leaveTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave allocations: %w", err)
	}
	defer rows.Close()

	var allocations []leave.LeaveAllocation
	for rows.Next() {
		var a leave.LeaveAllocation
		err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.LeaveTypeID,
			&a.CutoffYear,
			&a.AllocatedDays,
			&a.UsedDays,
			&a.CarryOverDays,
			&a.ExpiredDays,
			&a.PeriodStatus,
			&a.CutoffStartDate,
			&a.CutoffEndDate,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave allocation: %w", err)
		}
		allocations = append(allocations, a)
	}

	return allocations, rows.Err()
}

func (r *leaveAllocationRepositoryImpl) AddUsedDays(ctx context.Context, q database.Querier, allocationID int64, days float64) error {
	query := `
		UPDATE leave_allocations
		SET used_days = used_days + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID int64
	if err := q.QueryRow(ctx, query, days, allocationID).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrAllocationNotFound
		}
		return fmt.Errorf("failed to add used days to allocation %d: %w", allocationID, err)
	}
	return nil
}
