package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/ordermanagement-api/api/controllers"
	ordercontrollers "github.com/angelmondragon/ordermanagement-api/api/controllers/orders"
	"github.com/angelmondragon/ordermanagement-api/api/middleware"
	"github.com/angelmondragon/ordermanagement-api/internal/accounts"
	"github.com/angelmondragon/ordermanagement-api/internal/customers"
	"github.com/angelmondragon/ordermanagement-api/internal/orders"
	"github.com/angelmondragon/ordermanagement-api/internal/products"
	"github.com/angelmondragon/ordermanagement-api/pkg/config"
	"github.com/angelmondragon/ordermanagement-api/pkg/logger"
	"github.com/angelmondragon/ordermanagement-api/pkg/metrics"
	"github.com/angelmondragon/ordermanagement-api/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	gate middleware.Authenticator,
	authMetrics *metrics.AuthMetrics,
	metricsHandler http.Handler,
	accountService accounts.Service,
	productService products.Service,
	customerService customers.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// a nil *redis.Client must not reach the interfaces as a typed nil
	var (
		redisPinger controllers.Pinger
		rateStore   middleware.RateLimiterStore
	)
	if redisClient != nil {
		redisPinger = redisClient
		rateStore = redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	).WithMetrics(authMetrics)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	).WithMetrics(authMetrics)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if cfg.FeatureFlags.ExposeMetrics && metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(gate, authMetrics, logg))
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/accounts", controllers.AccountSignup(accountService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/accounts/signin", controllers.AccountSignin(accountService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(gate, authMetrics, logg))

			r.Get("/ping", controllers.PrivatePing())
			r.Delete("/accounts/signout", controllers.AccountSignout(accountService, logg))
			r.Get("/account", controllers.AccountProfile(accountService, logg))
			r.Put("/account", controllers.AccountUpdate(accountService, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(productService, logg))
				r.Post("/", controllers.ProductCreate(productService, logg))
				r.Get("/{productId}", controllers.ProductGet(productService, logg))
				r.Put("/{productId}", controllers.ProductUpdate(productService, logg))
				r.Delete("/{productId}", controllers.ProductDelete(productService, logg))
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", controllers.CustomerList(customerService, logg))
				r.Post("/", controllers.CustomerCreate(customerService, logg))
				r.Route("/{customerId}", func(r chi.Router) {
					r.Get("/", controllers.CustomerGet(customerService, logg))
					r.Put("/", controllers.CustomerUpdate(customerService, logg))
					r.Delete("/", controllers.CustomerDelete(customerService, logg))

					r.Route("/orders", func(r chi.Router) {
						r.Get("/", ordercontrollers.List(orderService, logg))
						r.Post("/", ordercontrollers.Create(orderService, logg))
						r.Route("/{orderId}", func(r chi.Router) {
							r.Get("/", ordercontrollers.Detail(orderService, logg))
							r.Put("/", ordercontrollers.Update(orderService, logg))
							r.Delete("/", ordercontrollers.Delete(orderService, logg))
							r.Post("/items", ordercontrollers.CreateItem(orderService, logg))
							r.Put("/items/{itemId}", ordercontrollers.UpdateItem(orderService, logg))
							r.Delete("/items/{itemId}", ordercontrollers.DeleteItem(orderService, logg))
						})
					})
				})
			})
		})
	})

	return r
}
