package repositories

import (
	"context"
	"time"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a user by ID. Soft-deleted users are excluded.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)

	// FindRefreshTokenDetails retrieves the stored refresh token hash and its
	// expiry for a user.
	FindRefreshTokenDetails(ctx context.Context, userID string) (tokenHash string, expiresAt time.Time, err error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error

	// MarkUserDeleted soft-deletes a user.
	MarkUserDeleted(ctx context.Context, userID string, deletedBy string, now time.Time) error

	// UpdateRefreshToken stores the hash and expiry of a freshly issued
	// refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error

	// ClearRefreshToken removes a user's stored refresh token.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
