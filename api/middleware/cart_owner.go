package middleware

import (
	"net/http"
	"strings"

	"github.com/migapan/storefront-backend/api/responses"
	"github.com/migapan/storefront-backend/internal/cart"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
	"github.com/migapan/storefront-backend/pkg/logger"
)

// GuestSessionHeader identifies an anonymous cart.
const GuestSessionHeader = "X-Session-ID"

// CartOwner resolves whose cart a request addresses. A present Authorization
// header must verify; otherwise X-Session-ID selects a guest cart.
func CartOwner(verifier IdentityVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if strings.TrimSpace(r.Header.Get("Authorization")) != "" {
				token := BearerToken(r)
				if token == "" {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
					return
				}
				authed, err := authenticate(ctx, verifier, logg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				owner := cart.ForUser(UserIDFromContext(authed))
				next.ServeHTTP(w, r.WithContext(WithCartOwner(authed, owner)))
				return
			}

			sessionID := strings.TrimSpace(r.Header.Get(GuestSessionHeader))
			if sessionID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication or X-Session-ID required"))
				return
			}
			owner := cart.ForGuest(sessionID)
			if err := owner.Validate(); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if logg != nil {
				ctx = logg.WithGuestSession(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(WithCartOwner(ctx, owner)))
		})
	}
}
