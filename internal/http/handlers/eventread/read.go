// Package eventread реализует HTTP-обработчик карточки события.
//
// Отменённые события и несуществующие идентификаторы снаружи
// неразличимы: и то и другое — 404.
package eventread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/anastasiapp/qa-start-tg-bot/internal/http/response"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/sl"
	eventservice "github.com/anastasiapp/qa-start-tg-bot/internal/services/event"
	"github.com/anastasiapp/qa-start-tg-bot/internal/storage"
)

// Service описывает интерфейс бизнес-логики карточки события.
type Service interface {
	Get(ctx context.Context, id string) (*eventservice.Card, error)
}

// Handler управляет HTTP-запросами карточки события.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Карточка события
// @Description Возвращает событие по идентификатору. Отменённые и несуществующие события дают одинаковый 404.
// @Tags Events
// @Produce json
// @Param id path string true "Идентификатор события"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Событие не найдено или отменено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /events/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.eventread"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("event id is required"))
		return
	}

	card, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Событие не найдено или отменено."))
			return
		}
		log.Error("failed to get event", sl.Err(err), slog.String("event_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get event"))
		return
	}

	render.JSON(w, r, response.OKWithData(card))
}
