package middleware

import (
	"context"

	"github.com/migapan/storefront-backend/internal/cart"
	"github.com/migapan/storefront-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxRole      contextKey = "actor_role"
	ctxSessionID contextKey = "session_id"
	ctxToken     contextKey = "access_token"
	ctxCartOwner contextKey = "cart_owner"
)

// UserIDFromContext returns the authenticated user id, or 0 for anonymous requests.
func UserIDFromContext(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(uint64); ok {
		return v
	}
	return 0
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.UserRole); ok {
		return v
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxSessionID).(uint64); ok {
		return v
	}
	return 0
}

// TokenFromContext returns the bearer token that passed verification.
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxToken).(string); ok {
		return v
	}
	return ""
}

// CartOwnerFromContext returns the owner resolved by CartOwner.
func CartOwnerFromContext(ctx context.Context) (cart.Owner, bool) {
	if ctx == nil {
		return cart.Owner{}, false
	}
	v, ok := ctx.Value(ctxCartOwner).(cart.Owner)
	return v, ok
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID uint64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithCartOwner injects a resolved cart owner, mainly for handler tests.
func WithCartOwner(ctx context.Context, owner cart.Owner) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartOwner, owner)
}
