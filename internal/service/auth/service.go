package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Service authenticates users against stored bcrypt hashes and issues
// access tokens. Lookup misses and password mismatches both collapse to
// ErrInvalidCredentials so the response does not leak which part failed.
type Service struct {
	db    *database.DB
	users user.UserRepository
	jwt   jwt.Service
}

func NewService(db *database.DB, userRepository user.UserRepository, jwtService jwt.Service) *Service {
	return &Service{
		db:    db,
		users: userRepository,
		jwt:   jwtService,
	}
}

func (s *Service) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	account, err := s.users.GetByUsername(ctx, s.db, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(strconv.FormatInt(account.ID, 10), account.Username, account.IsAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
