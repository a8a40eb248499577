package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
)

type activityLogRepositoryImpl struct{}

func NewActivityLogRepository() activitylog.ActivityLogRepository {
	return &activityLogRepositoryImpl{}
}

func (r *activityLogRepositoryImpl) Create(ctx context.Context, q database.Querier, entry activitylog.Entry) (activitylog.Entry, error) {
	query := `
		INSERT INTO activity_logs (
			action, entity, user_id, details, description,
			ip_address, user_agent, session_id, username,
			is_success, status_code, error_message,
			created_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12,
			$13, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		entry.Action, entry.Entity, entry.UserID, entry.Details, entry.Description,
		entry.IPAddress, entry.UserAgent, entry.SessionID, entry.Username,
		entry.IsSuccess, entry.StatusCode, entry.ErrorMessage,
		entry.CreatedBy,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return activitylog.Entry{}, fmt.Errorf("failed to insert activity log: %w", err)
	}

	return entry, nil
}
