package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Lee-Rose/python-final-diplom/api/controllers"
	"github.com/Lee-Rose/python-final-diplom/api/middleware"
	"github.com/Lee-Rose/python-final-diplom/internal/basket"
	"github.com/Lee-Rose/python-final-diplom/internal/catalog"
	"github.com/Lee-Rose/python-final-diplom/internal/orders"
	"github.com/Lee-Rose/python-final-diplom/internal/users"
	"github.com/Lee-Rose/python-final-diplom/pkg/config"
	"github.com/Lee-Rose/python-final-diplom/pkg/db"
	"github.com/Lee-Rose/python-final-diplom/pkg/logger"
	"github.com/Lee-Rose/python-final-diplom/pkg/metrics"
	pkgredis "github.com/Lee-Rose/python-final-diplom/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Nil optional fields
// (metrics, redis, checker) disable their middleware instead of panicking.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    db.Pinger
	RedisClient *pkgredis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics
	UserChecker users.Checker

	Catalog catalog.Service
	Basket  basket.Service
	Orders  orders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var redisPinger pkgredis.Pinger
	var idemStore pkgredis.IdempotencyStore
	if deps.RedisClient != nil {
		redisPinger = deps.RedisClient
		idemStore = deps.RedisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, redisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Registry))
	}

	// the catalog is world-readable
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.Catalog, logg))
		r.Get("/{productId}/offers", controllers.ProductOffers(deps.Catalog, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.UserChecker, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/basket", controllers.BasketFetch(deps.Basket, logg))
		r.Put("/basket/items", controllers.BasketUpsertItem(deps.Basket, logg))
		r.Delete("/basket/items/{productInfoId}", controllers.BasketRemoveItem(deps.Basket, logg))

		r.Post("/orders", controllers.OrderPlace(deps.Orders, logg))
		r.Get("/orders", controllers.OrderList(deps.Orders, logg))
		r.Get("/orders/{orderId}", controllers.OrderDetail(deps.Orders, logg))
		r.Post("/orders/{orderId}/delivered", controllers.OrderMarkDelivered(deps.Orders, logg))
	})

	return r
}
