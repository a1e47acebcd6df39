package accountsadmin

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	affcreate "github.com/magabrotheeeer/accounts-admin/internal/http/handlers/affiliations/create"
	afflist "github.com/magabrotheeeer/accounts-admin/internal/http/handlers/affiliations/list"
	affremove "github.com/magabrotheeeer/accounts-admin/internal/http/handlers/affiliations/remove"
	affupdate "github.com/magabrotheeeer/accounts-admin/internal/http/handlers/affiliations/update"
	"github.com/magabrotheeeer/accounts-admin/internal/http/handlers/health"
	"github.com/magabrotheeeer/accounts-admin/internal/http/handlers/users/create"
	"github.com/magabrotheeeer/accounts-admin/internal/http/handlers/users/export"
	"github.com/magabrotheeeer/accounts-admin/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/accounts-admin/internal/http/handlers/users/read"
	"github.com/magabrotheeeer/accounts-admin/internal/http/handlers/users/remove"
	"github.com/magabrotheeeer/accounts-admin/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/accounts-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/accounts-admin/internal/services/accounts"
)

// Deps — зависимости, из которых собираются маршруты.
type Deps struct {
	Logger   *slog.Logger
	Accounts *accounts.Service
	DB       *sql.DB
	Location *time.Location
	Limiter  *rate.Limiter
	Registry prometheus.Registerer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	metrics := middlewarectx.NewMetrics(d.Registry)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
	)

	r.Route("/admin/accounts", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(d.Logger, d.Limiter))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", list.New(d.Logger, d.Accounts).ServeHTTP)
			r.Post("/", create.New(d.Logger, d.Accounts).ServeHTTP)
			r.Get("/export", export.New(d.Logger, d.Accounts, d.Location).ServeHTTP)
			r.Get("/{id}", read.New(d.Logger, d.Accounts).ServeHTTP)
			r.Put("/{id}", update.New(d.Logger, d.Accounts).ServeHTTP)
			r.Delete("/{id}", remove.New(d.Logger, d.Accounts).ServeHTTP)
		})

		r.Route("/affiliations", func(r chi.Router) {
			r.Get("/", afflist.New(d.Logger, d.Accounts).ServeHTTP)
			r.Post("/", affcreate.New(d.Logger, d.Accounts).ServeHTTP)
			r.Put("/{id}", affupdate.New(d.Logger, d.Accounts).ServeHTTP)
			r.Delete("/{id}", affremove.New(d.Logger, d.Accounts).ServeHTTP)
		})
	})

	r.Get("/health", health.New(d.Logger, d.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
