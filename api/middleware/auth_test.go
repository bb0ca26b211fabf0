package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migapan/storefront-backend/internal/auth"
	"github.com/migapan/storefront-backend/internal/cart"
	"github.com/migapan/storefront-backend/pkg/auth/session"
	"github.com/migapan/storefront-backend/pkg/enums"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
)

type stubVerifier struct {
	token string
}

func (s stubVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	if token != s.token {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired session")
	}
	return &auth.Identity{Principal: &session.Principal{UserID: 7, Role: enums.UserRoleCustomer, SessionID: 3}}, nil
}

func TestAuthSeedsContext(t *testing.T) {
	var gotUser, gotSession uint64
	var gotToken string
	handler := Auth(stubVerifier{token: "good"}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
		gotToken = TokenFromContext(r.Context())
		assert.Equal(t, enums.UserRoleCustomer, RoleFromContext(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), gotUser)
	assert.Equal(t, uint64(3), gotSession)
	assert.Equal(t, "good", gotToken)
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	handler := Auth(stubVerifier{token: "good"}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	for _, header := range []string{"", "Bearer ", "Bearer revoked"} {
		req := httptest.NewRequest(http.MethodGet, "/api/pedidos", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestCartOwnerResolution(t *testing.T) {
	var owner cart.Owner
	var resolved bool
	handler := CartOwner(stubVerifier{token: "good"}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, resolved = CartOwnerFromContext(r.Context())
	}))

	serve := func(auth, sid string) int {
		owner, resolved = cart.Owner{}, false
		req := httptest.NewRequest(http.MethodGet, "/api/carrito", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		if sid != "" {
			req.Header.Set(GuestSessionHeader, sid)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, serve("Bearer good", "guest-session-1"))
	require.True(t, resolved)
	require.NotNil(t, owner.UserID)
	assert.Equal(t, uint64(7), *owner.UserID)
	assert.Empty(t, owner.SessionID)

	require.Equal(t, http.StatusOK, serve("", "  guest-session-1 "))
	assert.True(t, owner.IsGuest())
	assert.Equal(t, "guest-session-1", owner.SessionID)

	assert.Equal(t, http.StatusUnauthorized, serve("Bearer revoked", "guest-session-1"))
	assert.False(t, resolved)
	assert.Equal(t, http.StatusUnauthorized, serve("", ""))
	assert.Equal(t, http.StatusBadRequest, serve("", "short"))
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), string(pkgerrors.CodeInternal))
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRequestIDRejectsUnsafeInput(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, raw := range []string{"pedido 42", "id\twith-tab", "<script>", "0123456789012345678901234567890123456789012345678901234567890123456789"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, raw)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		got := rec.Header().Get(RequestIDHeader)
		assert.NotEqual(t, raw, got)
		assert.Len(t, got, 36)
	}

	assert.True(t, validRequestID("checkout_2026.10-16"))
}

func TestRecovererKeepsStartedResponse(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
		panic("late failure")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/pedidos", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"success":true}`, rec.Body.String())
}

func TestRecovererRethrowsAbortHandler(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
