package cart

import (
	"strings"

	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
)

const (
	MinSessionIDLen = 8
	MaxSessionIDLen = 128
)

// Owner identifies a cart by exactly one of a user id or an anonymous session id.
type Owner struct {
	UserID    *uint64
	SessionID string
}

func ForUser(userID uint64) Owner {
	return Owner{UserID: &userID}
}

func ForGuest(sessionID string) Owner {
	return Owner{SessionID: strings.TrimSpace(sessionID)}
}

// IsGuest reports whether the cart is keyed by an anonymous session.
func (o Owner) IsGuest() bool {
	return o.UserID == nil
}

// Validate enforces the single-owner rule.
func (o Owner) Validate() error {
	hasUser := o.UserID != nil && *o.UserID != 0
	hasSession := o.SessionID != ""
	switch {
	case hasUser && hasSession:
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner must be a user or a session, not both")
	case hasUser:
		return nil
	case hasSession:
		return ValidateSessionID(o.SessionID)
	default:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication or X-Session-ID required")
	}
}

// ValidateSessionID checks the shape of a client supplied X-Session-ID.
func ValidateSessionID(sessionID string) error {
	n := len(sessionID)
	if n < MinSessionIDLen || n > MaxSessionIDLen {
		return pkgerrors.New(pkgerrors.CodeValidation, "X-Session-ID must be between 8 and 128 characters")
	}
	for _, r := range sessionID {
		if r <= ' ' || r == 0x7f {
			return pkgerrors.New(pkgerrors.CodeValidation, "X-Session-ID contains invalid characters")
		}
	}
	return nil
}
