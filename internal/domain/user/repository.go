package user

import (
	"context"

	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
)

// UserRepository - interface for users table
type UserRepository interface {
	GetByUsername(ctx context.Context, q database.Querier, username string) (User, error)
	GetByID(ctx context.Context, q database.Querier, id int64) (User, error)
}
