// Package accountsadmin собирает HTTP-приложение админки учётных записей.
package accountsadmin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/accounts-admin/internal/audit"
	"github.com/magabrotheeeer/accounts-admin/internal/cache"
	"github.com/magabrotheeeer/accounts-admin/internal/config"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-admin/internal/migrations"
	"github.com/magabrotheeeer/accounts-admin/internal/services/accounts"
	"github.com/magabrotheeeer/accounts-admin/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP-сервер админки со всеми зависимостями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	closers []io.Closer
}

// New подключает базу, применяет миграции, поднимает кэш и журнал
// администратора и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{logger: logger, db: db}

	var userCache accounts.Cache = cache.Nop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, err
		}
		app.closers = append(app.closers, redisCache)
		userCache = redisCache
	} else {
		logger.Info("redis is not configured, cache disabled")
	}

	var publisher accounts.Publisher = audit.Nop{}
	if cfg.URLRabbit != "" {
		conn, err := audit.Connect(cfg.URLRabbit, cfg.ConnectRetries, cfg.RetryDelay)
		if err != nil {
			app.close()
			return nil, err
		}
		app.closers = append(app.closers, conn)

		ch, err := audit.SetupChannel(conn, cfg.Exchange)
		if err != nil {
			app.close()
			return nil, err
		}
		app.closers = append(app.closers, ch)
		publisher = audit.NewPublisher(ch, cfg.Exchange)
	} else {
		logger.Info("rabbitmq is not configured, admin log disabled")
	}

	accountsService := accounts.NewService(db, db, userCache, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:   logger,
		Accounts: accountsService,
		DB:       db.DB,
		Location: loc,
		Limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		Registry: prometheus.DefaultRegisterer,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает зависимости в обратном порядке.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close dependency", sl.Err(err))
		}
	}
	a.closers = nil
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
