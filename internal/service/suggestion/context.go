package suggestion

import "context"

// contextKey is an unexported type for context keys defined in this
// package.
type contextKey int

// userIDKey carries the requesting user's id to eligibility filters,
// whose contract is shaped purely around the task list.
const userIDKey contextKey = iota

// WithUserID returns a copy of the context carrying the requesting user's
// id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the requesting user's id, or "" when absent.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
