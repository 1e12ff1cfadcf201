// internal/repository/user_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user. A duplicate username surfaces as
	// util.ErrUsernameTaken via the database unique constraint, never a
	// check-then-insert.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByUsername retrieves a user by their username.
	GetUserByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// AdjustCash adds delta (negative to debit) to the user's cash balance.
	AdjustCash(ctx context.Context, q DBExecutor, userID int64, delta decimal.Decimal) error
}
