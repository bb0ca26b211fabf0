package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/migapan/storefront-backend/internal/users"
	"github.com/migapan/storefront-backend/pkg/auth/session"
	"github.com/migapan/storefront-backend/pkg/config"
	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/models"
	"github.com/migapan/storefront-backend/pkg/enums"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
	"github.com/migapan/storefront-backend/pkg/logger"
	"github.com/migapan/storefront-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	invalidSessionMessage     = "invalid or expired session"
)

// Service defines the behavior needed by the auth controller and middleware.
type Service interface {
	Register(ctx context.Context, req RegisterRequest, meta ClientMeta) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest, meta ClientMeta) (*AuthResponse, error)
	Verify(ctx context.Context, token string) (*Identity, error)
	Logout(ctx context.Context, token string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Open(ctx context.Context, userID uint64, role enums.UserRole, info session.ClientInfo) (*session.Issued, error)
	Verify(ctx context.Context, token string) (*session.Principal, error)
	Revoke(ctx context.Context, token string) error
}

type guestCartMerger interface {
	MergeGuestInto(ctx context.Context, sessionID string, userID uint64) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	TxRunner       txRunner
	UserRepo       *users.Repository
	SessionManager sessionManager
	// Carts is optional; without it guest carts are not adopted on login.
	Carts          guestCartMerger
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type service struct {
	tx          txRunner
	users       *users.Repository
	sessions    sessionManager
	carts       guestCartMerger
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		tx:          params.TxRunner,
		users:       params.UserRepo,
		sessions:    params.SessionManager,
		carts:       params.Carts,
		passwordCfg: params.PasswordConfig,
		logg:        logg,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest, meta ClientMeta) (*AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user, meta)
}

func (s *service) Verify(ctx context.Context, token string) (*Identity, error) {
	principal, err := s.sessions.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrInvalidToken) || errors.Is(err, session.ErrSessionNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidSessionMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify session")
	}

	user, err := s.users.FindByID(ctx, principal.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidSessionMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidSessionMessage)
	}
	return &Identity{Principal: principal, User: users.FromModel(user)}, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		if errors.Is(err, session.ErrInvalidToken) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidSessionMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := users.NormalizeEmail(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// issue records the login, opens a session row, and adopts any guest cart.
func (s *service) issue(ctx context.Context, user *models.User, meta ClientMeta) (*AuthResponse, error) {
	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	issued, err := s.sessions.Open(ctx, user.ID, user.Role, session.ClientInfo{
		UserAgent: meta.UserAgent,
		IPAddress: meta.IP,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open session")
	}

	s.adoptGuestCart(ctx, meta.GuestSessionID, user.ID)

	return &AuthResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		User:      users.FromModel(user),
	}, nil
}

func (s *service) adoptGuestCart(ctx context.Context, guestSessionID string, userID uint64) {
	guestSessionID = strings.TrimSpace(guestSessionID)
	if s.carts == nil || guestSessionID == "" {
		return
	}
	logCtx := s.logg.WithGuestSession(s.logg.WithUserID(ctx, userID), guestSessionID)
	if err := s.carts.MergeGuestInto(ctx, guestSessionID, userID); err != nil {
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "auth.guest_cart_merge_failed")
		return
	}
	s.logg.Debug(logCtx, "auth.guest_cart_merged")
}
