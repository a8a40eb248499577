package activitylog

import (
	"context"

	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
)

// ActivityLogRepository - interface for activity_logs table
type ActivityLogRepository interface {
	Create(ctx context.Context, q database.Querier, entry Entry) (Entry, error)
}
