// Package cancel реализует HTTP-обработчик отмены события.
//
// Отмена мягкая: строка остаётся в базе, но событие пропадает из всех
// выборок. Доступно только администраторам.
package cancel

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/anastasiapp/qa-start-tg-bot/internal/http/response"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/allowlist"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/sl"
)

// Request — тело запроса отмены.
type Request struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// Service описывает интерфейс бизнес-логики отмены события.
type Service interface {
	Cancel(ctx context.Context, id string) (bool, error)
}

// Handler управляет HTTP-запросами на отмену события.
type Handler struct {
	log      *slog.Logger
	service  Service
	admins   *allowlist.List
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, admins *allowlist.List) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		admins:   admins,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отменить событие
// @Description Помечает событие отменённым; дальше оно не видно ни в карточке, ни в списке.
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Идентификатор события"
// @Param request body Request true "Идентификатор администратора"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Пользователь не администратор"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено или уже отменено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /events/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if !h.admins.Contains(req.UserID) {
		log.Warn("cancel denied for non-admin", sl.UserID(req.UserID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("Только для админов."))
		return
	}

	id := chi.URLParam(r, "id")
	ok, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		log.Error("failed to cancel event", sl.Err(err), slog.String("event_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel event"))
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Событие не найдено или отменено."))
		return
	}

	log.Info("event cancelled", slog.String("event_id", id), sl.UserID(req.UserID))
	render.JSON(w, r, response.OK())
}
