package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepositoryImpl struct{}

func NewLeaveRepository() leave.LeaveRepository {
	return &leaveRepositoryImpl{}
}

func (r *leaveRepositoryImpl) Create(ctx context.Context, q database.Querier, request leave.Leave) (leave.Leave, error) {
	query := `
		INSERT INTO leave_requests (
			employee_id, leave_type_id,
			start_date, end_date, total_days, reason,
			status, cutoff_year,
			created_by, updated_by, created_at, updated_at
		) VALUES (
			$1, $2,
			$3, $4, $5, $6,
			$7, $8,
			$9, $10, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.TotalDays, request.Reason,
		request.Status, request.CutoffYear,
		request.CreatedBy, request.UpdatedBy,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to insert leave request: %w", err)
	}

	return request, nil
}

func (r *leaveRepositoryImpl) GetByID(ctx context.Context, q database.Querier, id int64) (leave.Leave, error) {
	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type_id,
			   lr.start_date, lr.end_date, lr.total_days, lr.reason,
			   lr.status, lr.cutoff_year,
			   lr.created_by, lr.updated_by, lr.created_at, lr.updated_at, lr.deleted_at,
			   lt.name as leave_type_name
		FROM leave_requests lr
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.id = $1 AND lr.deleted_at IS NULL
	`

	var req leave.Leave
	var leaveTypeName string

	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &req.LeaveTypeID,
		&req.StartDate, &req.EndDate, &req.TotalDays, &req.Reason,
		&req.Status, &req.CutoffYear,
		&req.CreatedBy, &req.UpdatedBy, &req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
		&leaveTypeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Leave{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Leave{}, err
	}

	req.LeaveTypeName = &leaveTypeName

	return req, nil
}

// FindOverlapping returns the employee's pending or approved requests whose
// inclusive range touches [startDate, endDate]. Rejected and cancelled
// requests never block new ones.
func (r *leaveRepositoryImpl) FindOverlapping(ctx context.Context, q database.Querier, employeeID int64, startDate, endDate time.Time) ([]leave.Leave, error) {
	query := `
		SELECT id, employee_id, leave_type_id,
			   start_date, end_date, total_days, reason,
			   status, cutoff_year,
			   created_by, updated_by, created_at, updated_at, deleted_at
		FROM leave_requests
		WHERE employee_id = $1
		  AND deleted_at IS NULL
		  AND status NOT IN ('rejected', 'cancelled')
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Leave
	for rows.Next() {
		var req leave.Leave
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveTypeID,
			&req.StartDate, &req.EndDate, &req.TotalDays, &req.Reason,
			&req.Status, &req.CutoffYear,
			&req.CreatedBy, &req.UpdatedBy, &req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func (r *leaveRepositoryImpl) GetByEmployeeID(ctx context.Context, q database.Querier, employeeID int64, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	whereClauses := []string{"lr.employee_id = $1", "lr.deleted_at IS NULL"}
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.start_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.end_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM leave_requests lr WHERE %s
	`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT lr.id, lr.employee_id, lr.leave_type_id,
			   lr.start_date, lr.end_date, lr.total_days, lr.reason,
			   lr.status, lr.cutoff_year,
			   lr.created_by, lr.updated_by, lr.created_at, lr.updated_at, lr.deleted_at,
			   lt.name as leave_type_name
		FROM leave_requests lr
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE %s
		ORDER BY lr.start_date DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Leave
	for rows.Next() {
		var req leave.Leave
		var leaveTypeName string

		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveTypeID,
			&req.StartDate, &req.EndDate, &req.TotalDays, &req.Reason,
			&req.Status, &req.CutoffYear,
			&req.CreatedBy, &req.UpdatedBy, &req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
			&leaveTypeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}

		req.LeaveTypeName = &leaveTypeName
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, total, nil
}

func (r *leaveRepositoryImpl) SoftDelete(ctx context.Context, q database.Querier, id int64, deletedBy string) error {
	query := `
		UPDATE leave_requests
		SET deleted_at = NOW(), updated_by = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING id
	`

	var deletedID int64
	if err := q.QueryRow(ctx, query, deletedBy, id).Scan(&deletedID); err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrLeaveRequestNotFound
		}
		return fmt.Errorf("failed to soft delete leave request %d: %w", id, err)
	}
	return nil
}
