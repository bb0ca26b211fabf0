package routes

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/migapan/storefront-backend/internal/auth"
	"github.com/migapan/storefront-backend/internal/cart"
	"github.com/migapan/storefront-backend/internal/categories"
	"github.com/migapan/storefront-backend/internal/favorites"
	"github.com/migapan/storefront-backend/internal/orders"
	"github.com/migapan/storefront-backend/internal/products"
	"github.com/migapan/storefront-backend/internal/sessions"
	"github.com/migapan/storefront-backend/internal/users"
	"github.com/migapan/storefront-backend/pkg/auth/session"
	"github.com/migapan/storefront-backend/pkg/config"
	"github.com/migapan/storefront-backend/pkg/logger"
	"github.com/migapan/storefront-backend/pkg/metrics"
	"github.com/migapan/storefront-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServicesParams carries what NewServices needs to assemble the domain layer.
type ServicesParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *gorm.DB
	TxRunner txRunner
	// Registerer is optional; nil disables order metrics.
	Registerer prometheus.Registerer
}

// NewServices builds every service mounted by NewRouter over one database.
func NewServices(params ServicesParams) (Services, error) {
	if params.Config == nil {
		return Services{}, fmt.Errorf("config is required")
	}
	if params.DB == nil || params.TxRunner == nil {
		return Services{}, fmt.Errorf("database is required")
	}
	cfg := params.Config
	conn := params.DB

	shippingFee, err := cfg.Shop.ShippingFeeAmount()
	if err != nil {
		return Services{}, err
	}

	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	userRepo := users.NewRepository(conn)

	productService, err := products.NewService(productRepo)
	if err != nil {
		return Services{}, fmt.Errorf("product service: %w", err)
	}
	categoryService, err := categories.NewService(categories.NewRepository(conn), productService)
	if err != nil {
		return Services{}, fmt.Errorf("category service: %w", err)
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		TxRunner:    params.TxRunner,
		Repo:        cartRepo,
		ProductRepo: productRepo,
		Logger:      params.Logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("cart service: %w", err)
	}

	sessionManager, err := session.NewManager(sessions.NewRepository(conn), cfg.JWT)
	if err != nil {
		return Services{}, fmt.Errorf("session manager: %w", err)
	}
	authService, err := auth.NewService(auth.ServiceParams{
		TxRunner:       params.TxRunner,
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Carts:          cartService,
		PasswordConfig: cfg.Password,
		Logger:         params.Logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("auth service: %w", err)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		TxRunner:      params.TxRunner,
		Repo:          orders.NewRepository(conn),
		ProductRepo:   productRepo,
		CartRepo:      cartRepo,
		Outbox:        outbox.NewService(outbox.NewRepository(conn), params.Logger),
		ShippingFee:   shippingFee,
		NumberRetries: cfg.Shop.OrderNumberAttempts,
		Metrics:       metrics.NewOrderMetrics(params.Registerer),
		Logger:        params.Logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("order service: %w", err)
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		return Services{}, fmt.Errorf("user service: %w", err)
	}
	favoriteService, err := favorites.NewService(favorites.NewRepository(conn), productRepo)
	if err != nil {
		return Services{}, fmt.Errorf("favorites service: %w", err)
	}

	return Services{
		Auth:       authService,
		Products:   productService,
		Categories: categoryService,
		Cart:       cartService,
		Orders:     orderService,
		Users:      userService,
		Favorites:  favoriteService,
	}, nil
}
