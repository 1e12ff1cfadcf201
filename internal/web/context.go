// internal/web/context.go
package web

import "context"

type contextKey string

// userIDKey carries the authenticated user's ID through the request context.
// The Auth Gate sets it; handlers read it. There is no ambient current-user
// state anywhere else.
const userIDKey contextKey = "userID"

func withUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFrom returns the authenticated user ID placed in the context by
// RequireLogin.
func UserIDFrom(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
