package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rajagrocer/storefront-backend/api/controllers"
	"github.com/rajagrocer/storefront-backend/api/middleware"
	"github.com/rajagrocer/storefront-backend/internal/billing"
	"github.com/rajagrocer/storefront-backend/internal/cart"
	"github.com/rajagrocer/storefront-backend/internal/catalog"
	checkoutsvc "github.com/rajagrocer/storefront-backend/internal/checkout"
	"github.com/rajagrocer/storefront-backend/pkg/config"
	pkgdb "github.com/rajagrocer/storefront-backend/pkg/db"
	"github.com/rajagrocer/storefront-backend/pkg/logger"
	pkgredis "github.com/rajagrocer/storefront-backend/pkg/redis"
)

type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DBPinger    pkgdb.Pinger
	Redis       pkgredis.IdempotencyStore
	RedisPinger pkgredis.Pinger
	Registry    *prometheus.Registry

	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	Billing  billing.Service

	CheckoutIdempotencyTTL time.Duration
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.DBPinger, deps.RedisPinger, deps.Logger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Catalog, deps.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, deps.Logger))
			r.Post("/items", controllers.AddCartItem(deps.Cart, deps.Catalog, deps.Logger))
			r.Patch("/items/{itemID}", controllers.ChangeCartItemQuantity(deps.Cart, deps.Logger))
			r.Delete("/items/{itemID}", controllers.RemoveCartItem(deps.Cart, deps.Logger))
		})

		r.With(middleware.Idempotency(deps.Redis, deps.CheckoutIdempotencyTTL, deps.Logger)).
			Post("/checkout", controllers.Checkout(deps.Checkout, deps.Logger))

		r.Route("/bills", func(r chi.Router) {
			r.Get("/{code}", controllers.GetBill(deps.Billing, deps.Logger))
			r.Get("/{code}/pdf", controllers.DownloadBillPDF(deps.Billing, deps.Logger))
		})
	})

	return r
}
