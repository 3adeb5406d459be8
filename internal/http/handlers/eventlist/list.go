// Package eventlist реализует HTTP-обработчик списка ближайших
// публичных событий.
package eventlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/anastasiapp/qa-start-tg-bot/internal/http/response"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/sl"
	eventservice "github.com/anastasiapp/qa-start-tg-bot/internal/services/event"
)

// Service описывает интерфейс бизнес-логики списка анонсов.
type Service interface {
	Upcoming(ctx context.Context, limit int) ([]eventservice.UpcomingEvent, error)
}

// Handler управляет HTTP-запросами списка событий.
type Handler struct {
	log          *slog.Logger
	service      Service
	defaultLimit int
}

// New создает новый Handler. defaultLimit используется, когда клиент
// не передал параметр limit.
func New(log *slog.Logger, service Service, defaultLimit int) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		defaultLimit: defaultLimit,
	}
}

// ServeHTTP godoc
// @Summary Список ближайших публичных событий
// @Description Возвращает неотменённые публичные события, начинающиеся не раньше текущего момента, по возрастанию начала. Больше 50 записей за раз не возвращается.
// @Tags Events
// @Produce json
// @Param limit query int false "Максимум записей, не больше 50"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.eventlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	events, err := h.service.Upcoming(r.Context(), limit)
	if err != nil {
		log.Error("failed to list upcoming events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list events"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"events": events,
	}))
}
