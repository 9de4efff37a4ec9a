package auth

import (
	"context"

	"github.com/vbtech/vbadmin/internal/domain"
)

type contextKey string

const userContextKey contextKey = "userContext"

// ContextWithUser returns a new context that carries the authenticated caller.
func ContextWithUser(ctx context.Context, user domain.UserContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated caller from the context, if any.
func UserFromContext(ctx context.Context) (domain.UserContext, bool) {
	if ctx == nil {
		return domain.UserContext{}, false
	}
	value := ctx.Value(userContextKey)
	if value == nil {
		return domain.UserContext{}, false
	}
	user, ok := value.(domain.UserContext)
	if !ok {
		return domain.UserContext{}, false
	}
	if user.UserPubID == "" {
		return domain.UserContext{}, false
	}
	return user, true
}
