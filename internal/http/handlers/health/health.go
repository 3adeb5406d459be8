// Package health реализует проверку живости шлюза и готовности базы.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/anastasiapp/qa-start-tg-bot/internal/http/response"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/sl"
)

// Checker проверяет готовность зависимостей.
type Checker func() error

// Handler управляет запросами проверки здоровья.
type Handler struct {
	log   *slog.Logger
	check Checker
}

// New создает новый Handler.
func New(log *slog.Logger, check Checker) *Handler {
	return &Handler{
		log:   log,
		check: check,
	}
}

// ServeHTTP godoc
// @Summary Проверка здоровья
// @Tags Service
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse "База недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.check(); err != nil {
		h.log.Error("health check failed", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("storage is not ready"))
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"healthy": true,
	}))
}
