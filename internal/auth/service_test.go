package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/migapan/storefront-backend/internal/cart"
	"github.com/migapan/storefront-backend/internal/products"
	"github.com/migapan/storefront-backend/internal/sessions"
	"github.com/migapan/storefront-backend/internal/users"
	"github.com/migapan/storefront-backend/pkg/auth/session"
	"github.com/migapan/storefront-backend/pkg/config"
	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/dbtest"
	"github.com/migapan/storefront-backend/pkg/db/models"
	"github.com/migapan/storefront-backend/pkg/enums"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "bakery", ExpirationMinutes: 60}

type failingMerger struct{ calls int }

func (f *failingMerger) MergeGuestInto(context.Context, string, uint64) error {
	f.calls++
	return errors.New("redis gone")
}

func buildService(t *testing.T, conn *gorm.DB, merger guestCartMerger) Service {
	t.Helper()
	manager, err := session.NewManager(sessions.NewRepository(conn), testJWT)
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		TxRunner:       db.NewFromConn(conn),
		UserRepo:       users.NewRepository(conn),
		SessionManager: manager,
		Carts:          merger,
	})
	require.NoError(t, err)
	return svc
}

func register(t *testing.T, svc Service, email string) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ana Pérez",
		Email:    email,
		Password: "secreto1",
	}, ClientMeta{UserAgent: "test", IP: "127.0.0.1"})
	require.NoError(t, err)
	return resp
}

func TestRegisterLoginVerifyLogout(t *testing.T) {
	conn := dbtest.Open(t)
	svc := buildService(t, conn, nil)
	ctx := context.Background()

	reg := register(t, svc, "  Ana@Example.COM ")
	require.NotEmpty(t, reg.Token)
	assert.Equal(t, "ana@example.com", reg.User.Email)
	assert.Equal(t, enums.UserRoleCustomer, reg.User.Role)

	login, err := svc.Login(ctx, LoginRequest{Email: "ANA@example.com", Password: "secreto1"}, ClientMeta{})
	require.NoError(t, err)
	require.NotEqual(t, reg.Token, login.Token)
	require.NotNil(t, login.User.LastLoginAt)

	identity, err := svc.Verify(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, identity.User.ID)
	assert.Equal(t, reg.User.ID, identity.Principal.UserID)

	var sessionsCount int64
	require.NoError(t, conn.Model(&models.Session{}).Count(&sessionsCount).Error)
	assert.Equal(t, int64(2), sessionsCount)

	require.NoError(t, svc.Logout(ctx, login.Token))
	_, err = svc.Verify(ctx, login.Token)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.Verify(ctx, reg.Token)
	assert.NoError(t, err)
}

func TestVerifyRejectsGarbageAndInactiveUsers(t *testing.T) {
	conn := dbtest.Open(t)
	svc := buildService(t, conn, nil)
	ctx := context.Background()

	_, err := svc.Verify(ctx, "not-a-jwt")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	_, err = svc.Verify(ctx, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	reg := register(t, svc, "ana@example.com")
	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", reg.User.ID).Update("active", false).Error)
	_, err = svc.Verify(ctx, reg.Token)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestRegisterDuplicateEmailIsValidationError(t *testing.T) {
	conn := dbtest.Open(t)
	svc := buildService(t, conn, nil)

	register(t, svc, "ana@example.com")
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Otra Ana", Email: "ANA@example.com", Password: "secreto1",
	}, ClientMeta{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, duplicateEmailMessage, typed.Message())

	var count int64
	require.NoError(t, conn.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterValidation(t *testing.T) {
	conn := dbtest.Open(t)
	svc := buildService(t, conn, nil)

	cases := map[string]RegisterRequest{
		"short password": {Name: "Ana", Email: "ana@example.com", Password: "12345"},
		"missing name":   {Name: "  ", Email: "ana@example.com", Password: "secreto1"},
		"bad email":      {Name: "Ana", Email: "ana.example.com", Password: "secreto1"},
	}
	for name, req := range cases {
		_, err := svc.Register(context.Background(), req, ClientMeta{})
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), name)
	}
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	conn := dbtest.Open(t)
	svc := buildService(t, conn, nil)
	ctx := context.Background()
	reg := register(t, svc, "ana@example.com")
	register(t, svc, "inactiva@example.com")
	require.NoError(t, conn.Model(&models.User{}).Where("email = ?", "inactiva@example.com").Update("active", false).Error)

	attempts := []LoginRequest{
		{Email: "nadie@example.com", Password: "secreto1"},
		{Email: reg.User.Email, Password: "incorrecta"},
		{Email: "inactiva@example.com", Password: "secreto1"},
	}
	for _, req := range attempts {
		_, err := svc.Login(ctx, req, ClientMeta{})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, req.Email)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		assert.Equal(t, invalidCredentialsMessage, typed.Message())
	}
}

func TestLoginAdoptsGuestCart(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()
	client := db.NewFromConn(conn)
	cartSvc, err := cart.NewService(cart.ServiceParams{
		TxRunner:    client,
		Repo:        cart.NewRepository(conn),
		ProductRepo: products.NewRepository(conn),
	})
	require.NoError(t, err)
	svc := buildService(t, conn, cartSvc)

	reg := register(t, svc, "ana@example.com")
	pan := dbtest.SeedProduct(t, conn, "Pan", "pan", 7000, dbtest.ProductOpts{})
	guest := cart.ForGuest("guest-session-123")
	_, err = cartSvc.AddItem(ctx, guest, cart.AddItemRequest{ProductID: pan.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: reg.User.Email, Password: "secreto1"}, ClientMeta{GuestSessionID: "guest-session-123"})
	require.NoError(t, err)

	userCart, err := cartSvc.Get(ctx, cart.ForUser(reg.User.ID))
	require.NoError(t, err)
	require.Len(t, userCart.Items, 1)
	assert.Equal(t, 2, userCart.Items[0].Quantity)

	guestCart, err := cartSvc.Get(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, guestCart.Items)
}

func TestLoginSucceedsWhenGuestMergeFails(t *testing.T) {
	conn := dbtest.Open(t)
	merger := &failingMerger{}
	svc := buildService(t, conn, merger)
	reg := register(t, svc, "ana@example.com")

	resp, err := svc.Login(context.Background(), LoginRequest{Email: reg.User.Email, Password: "secreto1"}, ClientMeta{GuestSessionID: "guest-session-123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 1, merger.calls)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}
