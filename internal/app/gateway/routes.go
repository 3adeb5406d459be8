// Package gateway предоставляет маршруты для основного приложения.
package gateway

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/anastasiapp/qa-start-tg-bot/internal/dialog"
	"github.com/anastasiapp/qa-start-tg-bot/internal/http/handlers/cancel"
	"github.com/anastasiapp/qa-start-tg-bot/internal/http/handlers/email"
	"github.com/anastasiapp/qa-start-tg-bot/internal/http/handlers/eventlist"
	"github.com/anastasiapp/qa-start-tg-bot/internal/http/handlers/eventread"
	"github.com/anastasiapp/qa-start-tg-bot/internal/http/handlers/health"
	"github.com/anastasiapp/qa-start-tg-bot/internal/http/handlers/message"
	"github.com/anastasiapp/qa-start-tg-bot/internal/http/handlers/newevent"
	"github.com/anastasiapp/qa-start-tg-bot/internal/http/handlers/register"
	"github.com/anastasiapp/qa-start-tg-bot/internal/http/handlers/subscribe"
	"github.com/anastasiapp/qa-start-tg-bot/internal/http/middlewarectx"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/allowlist"
	eventservice "github.com/anastasiapp/qa-start-tg-bot/internal/services/event"
	"github.com/anastasiapp/qa-start-tg-bot/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, service *eventservice.Service,
	dialogMachine *dialog.Machine, admins *allowlist.List, db *storage.Storage, upcomingLimit int) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.RateLimitMiddleware(logger, rate.NewLimiter(20, 40)),
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", register.New(logger, service).ServeHTTP)
		r.Get("/events", eventlist.New(logger, service, upcomingLimit).ServeHTTP)
		r.Get("/events/{id}", eventread.New(logger, service).ServeHTTP)
		r.Post("/events/new", newevent.New(logger, dialogMachine, admins).ServeHTTP)
		r.Post("/events/{id}/cancel", cancel.New(logger, service, admins).ServeHTTP)
		r.Post("/messages", message.New(logger, service, dialogMachine).ServeHTTP)
		r.Post("/subscriptions", subscribe.New(logger, service).ServeHTTP)
		r.Post("/users/email", email.New(logger, service).ServeHTTP)
	})

	r.Get("/health", health.New(logger, func() error {
		return storage.CheckDatabaseReady(db)
	}).ServeHTTP)

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
