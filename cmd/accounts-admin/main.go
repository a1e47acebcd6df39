// Package main Accounts Admin API
//
// @title           Accounts Admin API
// @version         1.0
// @description     API админки учётных записей: пользователи, организации, выгрузка CSV
//
// @host      localhost:8080
// @BasePath  /
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	accountsadmin "github.com/magabrotheeeer/accounts-admin/internal/app/accounts-admin"
	"github.com/magabrotheeeer/accounts-admin/internal/config"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting accounts-admin", slog.String("env", cfg.Env))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := accountsadmin.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("accounts-admin stopped gracefully")
}
