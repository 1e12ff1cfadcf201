// internal/session/session.go
package session

import (
	"context"
)

// Store associates opaque session tokens with authenticated user IDs.
// The token travels in the session cookie; the user ID never does.
type Store interface {
	// Create binds a fresh token to the user ID and returns it.
	Create(ctx context.Context, userID int64) (string, error)
	// Get resolves a token to the bound user ID, or util.ErrNoSession.
	Get(ctx context.Context, token string) (int64, error)
	// Delete invalidates the token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}
