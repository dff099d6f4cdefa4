package http

import (
	"context"

	"bloodlink-backend/internal/domain"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// UserFromContext returns the authenticated user id and role placed there by
// the auth middleware.
func UserFromContext(ctx context.Context) (int32, domain.Role, bool) {
	id, ok := ctx.Value(userIDKey).(int32)
	if !ok {
		return 0, "", false
	}
	role, _ := ctx.Value(roleKey).(domain.Role)
	return id, role, true
}

func withUser(ctx context.Context, id int32, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	return context.WithValue(ctx, roleKey, role)
}
