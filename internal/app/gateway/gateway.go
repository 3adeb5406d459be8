// Package gateway собирает приложение: хранилище, кеш, диалоговую
// машину, бизнес-логику и HTTP-сервер, играющий роль транспорта чата.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/anastasiapp/qa-start-tg-bot/internal/cache"
	"github.com/anastasiapp/qa-start-tg-bot/internal/config"
	"github.com/anastasiapp/qa-start-tg-bot/internal/dialog"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/allowlist"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/timeutil"
	"github.com/anastasiapp/qa-start-tg-bot/internal/migrations"
	eventservice "github.com/anastasiapp/qa-start-tg-bot/internal/services/event"
	"github.com/anastasiapp/qa-start-tg-bot/internal/storage"
)

// App держит собранный HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New собирает приложение по конфигу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	tz, err := timeutil.New(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	admins := allowlist.Parse(cfg.Admins)
	if admins.Len() == 0 {
		logger.Warn("admin list is empty, nobody can create events")
	}

	dialogMachine := dialog.New()
	service := eventservice.New(db, cacheRedis, tz, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, service, dialogMachine, admins, db, cfg.UpcomingLimit)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает сервер и корректно гасит его по отмене контекста.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
