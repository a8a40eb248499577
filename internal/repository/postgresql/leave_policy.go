package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
)

type leavePolicyRepositoryImpl struct{}

func NewLeavePolicyRepository() leave.LeavePolicyRepository {
	return &leavePolicyRepositoryImpl{}
}

// GetByEmployeeTypeAndLeaveType returns every policy version for the pair;
// the caller picks the effective one.
func (r *leavePolicyRepositoryImpl) GetByEmployeeTypeAndLeaveType(ctx context.Context, q database.Querier, employeeType string, leaveTypeID int64) ([]leave.LeavePolicy, error) {
	query := `
		SELECT id, employee_type, leave_type_id,
			   annual_allocation, accrual_rate, max_carry_over, carry_over_expiry_months,
			   minimum_notice_hours, max_consecutive_days, max_days_per_request,
			   blackout_periods, approval_workflow, documentation_requirements,
			   is_active, effective_date,
			   created_by, updated_by, created_at, updated_at
		FROM leave_policies
		WHERE employee_type = $1 AND leave_type_id = $2
		ORDER BY effective_date DESC
	`

	rows, err := q.Query(ctx, query, employeeType, leaveTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave policies: %w", err)
	}
	defer rows.Close()

	var policies []leave.LeavePolicy
	for rows.Next() {
		var p leave.LeavePolicy
		err := rows.Scan(
			&p.ID,
			&p.EmployeeType,
			&p.LeaveTypeID,
			&p.AnnualAllocation,
			&p.AccrualRate,
			&p.MaxCarryOver,
			&p.CarryOverExpiryMonths,
			&p.MinimumNoticeHours,
			&p.MaxConsecutiveDays,
			&p.MaxDaysPerRequest,
			&p.BlackoutPeriods,
			&p.ApprovalWorkflow,
			&p.DocumentationRequirements,
			&p.IsActive,
			&p.EffectiveDate,
			&p.CreatedBy,
			&p.UpdatedBy,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave policy: %w", err)
		}
		policies = append(policies, p)
	}

	return policies, rows.Err()
}
