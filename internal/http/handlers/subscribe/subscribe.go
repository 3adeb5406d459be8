// Package subscribe реализует HTTP-обработчик подписки на событие.
//
// Вставка идемпотентна: повторная подписка той же пары ничего не
// меняет и не считается ошибкой.
package subscribe

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/anastasiapp/qa-start-tg-bot/internal/http/response"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/sl"
)

// Request — тело запроса подписки.
type Request struct {
	UserID  int64  `json:"user_id" validate:"required"`
	EventID string `json:"event_id" validate:"required"`
}

// Service описывает интерфейс бизнес-логики подписки.
type Service interface {
	Subscribe(ctx context.Context, userID int64, eventID string) error
}

// Handler управляет HTTP-запросами на подписку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подписаться на событие
// @Description Добавляет подписку пользователя на событие. Повторная подписка — no-op.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body Request true "Пользователь и событие"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribe"
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

	if err := h.service.Subscribe(r.Context(), req.UserID, req.EventID); err != nil {
		log.Error("failed to subscribe", sl.Err(err), sl.UserID(req.UserID),
			slog.String("event_id", req.EventID))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not subscribe"))
		return
	}

	log.Info("subscription created", sl.UserID(req.UserID), slog.String("event_id", req.EventID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Подписка оформлена",
	}))
}
