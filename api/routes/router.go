package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/migapan/storefront-backend/api/controllers"
	authcontrollers "github.com/migapan/storefront-backend/api/controllers/auth"
	cartcontrollers "github.com/migapan/storefront-backend/api/controllers/cart"
	ordercontrollers "github.com/migapan/storefront-backend/api/controllers/orders"
	"github.com/migapan/storefront-backend/api/middleware"
	"github.com/migapan/storefront-backend/internal/auth"
	"github.com/migapan/storefront-backend/internal/cart"
	"github.com/migapan/storefront-backend/internal/categories"
	"github.com/migapan/storefront-backend/internal/favorites"
	"github.com/migapan/storefront-backend/internal/orders"
	"github.com/migapan/storefront-backend/internal/products"
	"github.com/migapan/storefront-backend/internal/users"
	"github.com/migapan/storefront-backend/pkg/config"
	"github.com/migapan/storefront-backend/pkg/logger"
	"github.com/migapan/storefront-backend/pkg/metrics"
	pkgredis "github.com/migapan/storefront-backend/pkg/redis"
)

// Cache is the Redis surface the HTTP layer uses. A nil Cache turns off
// auth throttling and idempotent replay and drops Redis from the health check.
type Cache interface {
	pkgredis.RateLimiter
	pkgredis.IdempotencyStore
	pkgredis.Pinger
}

// Services groups the domain services mounted on the router.
type Services struct {
	Auth       auth.Service
	Products   products.Service
	Categories categories.Service
	Cart       cart.Service
	Orders     orders.Service
	Users      users.Service
	Favorites  favorites.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cache Cache,
	registry *prometheus.Registry,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
	if registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(registry)))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	var (
		limiter     pkgredis.RateLimiter
		idempotency pkgredis.IdempotencyStore
		cachePinger controllers.Pinger
	)
	if cache != nil {
		limiter, idempotency, cachePinger = cache, cache, cache
	}

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit)
	requireAuth := middleware.Auth(svc.Auth, logg)
	replay := middleware.Idempotency(idempotency, logg)

	r.Get("/api/health", controllers.HealthCheck(cfg, dbP, cachePinger, logg))

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).Post("/register", authcontrollers.AuthRegister(svc.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", authcontrollers.AuthLogin(svc.Auth, logg))
		r.Get("/verify", authcontrollers.AuthVerify(svc.Auth, logg))
		r.With(requireAuth).Post("/logout", authcontrollers.AuthLogout(svc.Auth, logg))
	})

	r.Route("/api/productos", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svc.Products, logg))
		r.Get("/slug/{slug}", controllers.ProductBySlug(svc.Products, logg))
		r.Get("/{productId}", controllers.ProductDetail(svc.Products, logg))
	})

	r.Route("/api/categorias", func(r chi.Router) {
		r.Get("/", controllers.CategoryList(svc.Categories, logg))
		r.Get("/{categoryId}", controllers.CategoryDetail(svc.Categories, logg))
		r.Get("/{categoryId}/productos", controllers.CategoryProducts(svc.Categories, logg))
	})

	r.Route("/api/carrito", func(r chi.Router) {
		r.Use(middleware.CartOwner(svc.Auth, logg))
		r.Get("/", cartcontrollers.CartFetch(svc.Cart, logg))
		r.With(replay).Post("/", cartcontrollers.CartAddItem(svc.Cart, logg))
		r.Delete("/", cartcontrollers.CartClear(svc.Cart, logg))
		r.Put("/items/{itemId}", cartcontrollers.CartUpdateItem(svc.Cart, logg))
		r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(svc.Cart, logg))
	})

	r.Route("/api/pedidos", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(replay).Post("/", ordercontrollers.Place(svc.Orders, logg))
		r.Get("/", ordercontrollers.List(svc.Orders, logg))
		r.Get("/{orderId}", ordercontrollers.Get(svc.Orders, logg))
	})

	r.Route("/api/usuarios", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/profile", controllers.ProfileGet(svc.Users, logg))
		r.Put("/profile", controllers.ProfileUpdate(svc.Users, logg))
		r.Get("/favoritos", controllers.FavoriteList(svc.Favorites, logg))
		r.With(replay).Post("/favoritos", controllers.FavoriteAdd(svc.Favorites, logg))
		r.Delete("/favoritos/{productId}", controllers.FavoriteRemove(svc.Favorites, logg))
	})

	return r
}
