package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/migapan/storefront-backend/pkg/auth"
	"github.com/migapan/storefront-backend/pkg/config"
	"github.com/migapan/storefront-backend/pkg/db/models"
	"github.com/migapan/storefront-backend/pkg/enums"
	"github.com/migapan/storefront-backend/pkg/security"
)

var (
	// ErrInvalidToken covers bad signature, wrong issuer, and expiry.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSessionNotFound means the token parsed but its session row is gone or expired.
	ErrSessionNotFound = errors.New("session not found")
)

// Store persists session rows. Lookups only return rows that are unexpired
// and whose user is still active.
type Store interface {
	Create(ctx context.Context, session *models.Session) error
	FindActiveByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error)
}

// Verifier exposes the read-only surface needed by middleware.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// Principal is the identity behind a verified token.
type Principal struct {
	UserID    uint64
	Role      enums.UserRole
	SessionID uint64
	JTI       string
	ExpiresAt time.Time
}

// ClientInfo is recorded on the session row for auditing.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// Issued is returned when a session is opened.
type Issued struct {
	Token     string
	ExpiresAt time.Time
	SessionID uint64
}

// Manager mints tokens and keeps the session table as the revocation list.
type Manager struct {
	store Store
	cfg   config.JWTConfig
	now   func() time.Time
}

// NewManager constructs a session manager backed by the session table.
func NewManager(store Store, cfg config.JWTConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if cfg.TTL() <= 0 {
		return nil, fmt.Errorf("jwt ttl must be positive")
	}
	return &Manager{
		store: store,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// Open mints a token for the user and persists the matching session row.
func (m *Manager) Open(ctx context.Context, userID uint64, role enums.UserRole, info ClientInfo) (*Issued, error) {
	minted, err := auth.MintAccessToken(m.cfg, m.now(), auth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		return nil, err
	}

	row := &models.Session{
		UserID:    userID,
		TokenHash: security.HashToken(minted.Token),
		ExpiresAt: minted.ExpiresAt.UTC(),
		UserAgent: truncated(info.UserAgent, 255),
		IPAddress: truncated(info.IPAddress, 64),
	}
	if err := m.store.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return &Issued{Token: minted.Token, ExpiresAt: row.ExpiresAt, SessionID: row.ID}, nil
}

// Verify runs both checks: the JWT itself and a live session row.
func (m *Manager) Verify(ctx context.Context, token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims, err := auth.ParseAccessToken(m.cfg, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	row, err := m.store.FindActiveByTokenHash(ctx, security.HashToken(token), m.now())
	if err != nil {
		return nil, err
	}
	if row == nil || row.UserID != claims.UserID {
		return nil, ErrSessionNotFound
	}

	return &Principal{
		UserID:    claims.UserID,
		Role:      claims.Role,
		SessionID: row.ID,
		JTI:       claims.ID,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// Revoke deletes the session row for the token. Revoking twice is not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	_, err := m.store.DeleteByTokenHash(ctx, security.HashToken(token))
	return err
}

func truncated(value string, max int) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if len(value) > max {
		value = value[:max]
	}
	return &value
}
