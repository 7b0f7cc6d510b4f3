package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tienditalabs/tiendita-backend/api/controllers"
	"github.com/tienditalabs/tiendita-backend/api/middleware"
	authsvc "github.com/tienditalabs/tiendita-backend/internal/auth"
	"github.com/tienditalabs/tiendita-backend/internal/cart"
	"github.com/tienditalabs/tiendita-backend/internal/catalog"
	checkoutsvc "github.com/tienditalabs/tiendita-backend/internal/checkout"
	"github.com/tienditalabs/tiendita-backend/internal/newsletter"
	"github.com/tienditalabs/tiendita-backend/internal/orders"
	"github.com/tienditalabs/tiendita-backend/internal/uploads"
	"github.com/tienditalabs/tiendita-backend/pkg/config"
	"github.com/tienditalabs/tiendita-backend/pkg/logger"
	"github.com/tienditalabs/tiendita-backend/pkg/metrics"
	"github.com/tienditalabs/tiendita-backend/pkg/redis"
)

// Services bundles the wired application services the router mounts.
type Services struct {
	Catalog    catalog.Service
	Cart       cart.Service
	Checkout   checkoutsvc.Service
	Orders     orders.Service
	Newsletter newsletter.Service
	Uploads    uploads.Service
	Auth       authsvc.Service
}

// Probes carries the readiness checks for the health endpoint.
type Probes struct {
	DB      controllers.Pinger
	Redis   controllers.Pinger
	Storage controllers.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	svcs Services,
	probes Probes,
) http.Handler {
	// A nil *redis.Client must not sneak into the middleware interfaces as a
	// typed non-nil value, so convert it once here.
	var limiterStore middleware.RateLimiterStore
	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		limiterStore = redisClient
		idemStore = redisClient
	}

	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	apiPolicy := middleware.NewRateLimitPolicy(
		"api",
		cfg.RateLimit.Window,
		int(cfg.RateLimit.Limit),
		0,
	)
	loginPolicy := middleware.NewRateLimitPolicy("login", cfg.RateLimit.Window, 10, 5)
	newsletterPolicy := middleware.NewRateLimitPolicy("newsletter", cfg.RateLimit.Window, 10, 3)

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(apiPolicy, limiterStore, logg))

		r.Route("/health", func(r chi.Router) {
			r.Get("/", controllers.HealthLive(cfg))
			r.Get("/ready", controllers.HealthReady(cfg, logg, probes.DB, probes.Redis, probes.Storage))
		})

		r.Get("/categories", controllers.ListCategories(svcs.Catalog, logg))

		r.With(middleware.RateLimit(loginPolicy, limiterStore, logg)).
			Post("/auth/login", controllers.AdminLogin(svcs.Auth, logg))
		r.With(middleware.RateLimit(newsletterPolicy, limiterStore, logg), middleware.Idempotency(idemStore, logg)).
			Post("/newsletter/subscribe", controllers.NewsletterSubscribe(svcs.Newsletter, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartToken(logg))
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Patch("/items/{lineId}", controllers.CartUpdateItem(svcs.Cart, logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveItem(svcs.Cart, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.With(middleware.CartToken(logg), middleware.Idempotency(idemStore, logg)).
				Post("/create-preference", controllers.CreatePreference(svcs.Checkout, logg))
			r.Get("/order/{orderId}", controllers.OrderStatus(svcs.Orders, logg))
			r.Post("/webhook", controllers.PaymentWebhook(svcs.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
			r.Get("/{productId}", controllers.GetProduct(svcs.Catalog, logg))

			// Panel-only catalog management.
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(cfg.JWT, logg))
				r.Use(middleware.Idempotency(idemStore, logg))
				r.Get("/all", controllers.AdminListProducts(svcs.Catalog, logg))
				r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
				r.Put("/{productId}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Catalog, logg))
			})
		})

		r.Route("/uploads", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, logg))
			r.Post("/upload-images", controllers.UploadImages(svcs.Uploads, cfg.Media, logg))
		})
	})

	return r
}
