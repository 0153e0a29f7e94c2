package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dariosuarez/softmart-backend/api/controllers"
	ordercontrollers "github.com/dariosuarez/softmart-backend/api/controllers/orders"
	"github.com/dariosuarez/softmart-backend/api/middleware"
	"github.com/dariosuarez/softmart-backend/internal/analytics"
	"github.com/dariosuarez/softmart-backend/internal/auth"
	"github.com/dariosuarez/softmart-backend/internal/categories"
	"github.com/dariosuarez/softmart-backend/internal/licenses"
	"github.com/dariosuarez/softmart-backend/internal/orders"
	"github.com/dariosuarez/softmart-backend/internal/products"
	"github.com/dariosuarez/softmart-backend/pkg/auth/session"
	"github.com/dariosuarez/softmart-backend/pkg/config"
	"github.com/dariosuarez/softmart-backend/pkg/db"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
	"github.com/dariosuarez/softmart-backend/pkg/logger"
	"github.com/dariosuarez/softmart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionManager *session.Manager,
	authService auth.Service,
	ordersService orders.Service,
	productsService *products.Service,
	categoriesService *categories.Service,
	licensesService *licenses.Service,
	analyticsService *analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(ordersService, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(ordersService, logg))
			r.Put("/{orderId}/status", ordercontrollers.UpdateStatus(ordersService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productsService, logg))
			r.Get("/{productId}", controllers.ProductDetail(productsService, logg))
		})

		r.Get("/categories", controllers.CategoryList(categoriesService, logg))
		r.Get("/licenses", controllers.LicenseList(licensesService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CategoryCreate(categoriesService, logg))
			r.Put("/{categoryId}", controllers.CategoryUpdate(categoriesService, logg))
			r.Delete("/{categoryId}", controllers.CategoryDelete(categoriesService, logg))
		})

		r.Get("/analytics/summary", controllers.AnalyticsSummary(analyticsService, logg))
	})

	return r
}
