package utils

import "context"

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "email"
	UserRoleKey  contextKey = "role"
	callerKey    contextKey = "caller"
)

// Caller names the trusted non-user principal behind a request, such as
// the scheduler or the database webhook.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func CallerFromContext(ctx context.Context) string {
	c, _ := ctx.Value(callerKey).(string)
	return c
}
