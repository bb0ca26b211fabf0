package auth

import (
	"time"

	"github.com/migapan/storefront-backend/internal/users"
	"github.com/migapan/storefront-backend/pkg/auth/session"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for creating a customer account.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=40"`
}

// ClientMeta carries request details recorded on the session row. GuestSessionID
// is the X-Session-ID header, used to adopt an anonymous cart.
type ClientMeta struct {
	UserAgent      string
	IP             string
	GuestSessionID string
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *users.UserDTO `json:"user"`
}

// Identity is a verified principal plus its current user row.
type Identity struct {
	Principal *session.Principal `json:"-"`
	User      *users.UserDTO     `json:"user"`
}
