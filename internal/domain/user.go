// internal/domain/user.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// DefaultCash is the starting balance credited to every new account.
var DefaultCash = decimal.NewFromInt(10000)

// User represents a registered account.
type User struct {
	ID           int64           `db:"id" json:"id"`                       // Primary key, BIGSERIAL in DB
	Username     string          `db:"username" json:"username"`           // Unique username
	PasswordHash string          `db:"password_hash" json:"-"`             // One-way credential hash, never exposed
	Cash         decimal.Decimal `db:"cash" json:"cash"`                   // Available cash, NUMERIC(20, 4) in DB, never negative
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`       // Timestamp of creation
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`       // Timestamp of last update
}

// NewUser creates a new User with the default cash balance.
func NewUser(username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Cash:         DefaultCash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
