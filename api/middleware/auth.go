package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/migapan/storefront-backend/api/responses"
	"github.com/migapan/storefront-backend/internal/auth"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
	"github.com/migapan/storefront-backend/pkg/logger"
)

// IdentityVerifier runs the token + session row double check.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

// Auth rejects requests without a verified session and seeds the request
// context and logger with the principal.
func Auth(verifier IdentityVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			ctx, err := authenticate(r.Context(), verifier, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(ctx context.Context, verifier IdentityVerifier, logg *logger.Logger, token string) (context.Context, error) {
	identity, err := verifier.Verify(ctx, token)
	if err != nil {
		return ctx, err
	}
	p := identity.Principal
	ctx = context.WithValue(ctx, ctxUserID, p.UserID)
	ctx = context.WithValue(ctx, ctxRole, p.Role)
	ctx = context.WithValue(ctx, ctxSessionID, p.SessionID)
	ctx = context.WithValue(ctx, ctxToken, token)
	if logg != nil {
		ctx = logg.WithRole(logg.WithUserID(ctx, p.UserID), p.Role.String())
	}
	return ctx, nil
}
