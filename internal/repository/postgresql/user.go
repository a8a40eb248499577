package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type UserRepositoryImpl struct{}

func NewUserRepository() user.UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, q database.Querier, username string) (user.User, error) {
	query := `
		SELECT id, username, password_hash, is_admin, employee_id, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	var u user.User
	err := q.QueryRow(ctx, query, username).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.EmployeeID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, q database.Querier, id int64) (user.User, error) {
	query := `
		SELECT id, username, password_hash, is_admin, employee_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.EmployeeID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}
