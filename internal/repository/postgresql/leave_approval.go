package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
)

type leaveApprovalRepositoryImpl struct{}

func NewLeaveApprovalRepository() leave.LeaveApprovalRepository {
	return &leaveApprovalRepositoryImpl{}
}

func (r *leaveApprovalRepositoryImpl) Create(ctx context.Context, q database.Querier, approval leave.LeaveApproval) (leave.LeaveApproval, error) {
	query := `
		INSERT INTO leave_approvals (
			leave_id, approver_id, approval_level, status,
			created_by, updated_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		approval.LeaveID, approval.ApproverID, approval.ApprovalLevel, approval.Status,
		approval.CreatedBy, approval.UpdatedBy,
	).Scan(&approval.ID, &approval.CreatedAt, &approval.UpdatedAt)
	if err != nil {
		return leave.LeaveApproval{}, fmt.Errorf("failed to insert leave approval: %w", err)
	}

	return approval, nil
}

func (r *leaveApprovalRepositoryImpl) GetByLeaveID(ctx context.Context, q database.Querier, leaveID int64) ([]leave.LeaveApproval, error) {
	query := `
		SELECT id, leave_id, approver_id, approval_level, status,
			   created_by, updated_by, created_at, updated_at
		FROM leave_approvals
		WHERE leave_id = $1
		ORDER BY approval_level
	`

	rows, err := q.Query(ctx, query, leaveID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave approvals: %w", err)
	}
	defer rows.Close()

	var approvals []leave.LeaveApproval
	for rows.Next() {
		var a leave.LeaveApproval
		err := rows.Scan(
			&a.ID, &a.LeaveID, &a.ApproverID, &a.ApprovalLevel, &a.Status,
			&a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave approval: %w", err)
		}
		approvals = append(approvals, a)
	}

	return approvals, rows.Err()
}
