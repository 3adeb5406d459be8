// Package email реализует HTTP-обработчик сохранения почты пользователя.
//
// Пока это заглушка: адрес сохраняется как есть, без проверки и без
// подтверждения. Дублирование уведомлений на почту появится позже.
package email

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/anastasiapp/qa-start-tg-bot/internal/http/response"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/sl"
	eventservice "github.com/anastasiapp/qa-start-tg-bot/internal/services/event"
)

// Request — тело запроса сохранения почты.
type Request struct {
	UserID int64  `json:"user_id" validate:"required"`
	Email  string `json:"email" validate:"required"`
}

// Service описывает интерфейс бизнес-логики сохранения почты.
type Service interface {
	SaveEmail(ctx context.Context, userID int64, email string) error
}

// Handler управляет HTTP-запросами на сохранение почты.
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
// @Summary Сохранить почту пользователя
// @Description Сохраняет адрес без проверки, с признаком «не подтверждён».
// @Tags Users
// @Accept json
// @Produce json
// @Param request body Request true "Пользователь и адрес"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Пользователь не зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/email [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.email"
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

	if err := h.service.SaveEmail(r.Context(), req.UserID, req.Email); err != nil {
		if errors.Is(err, eventservice.ErrUnknownUser) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user is not registered"))
			return
		}
		log.Error("failed to save email", sl.Err(err), sl.UserID(req.UserID))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save email"))
		return
	}

	log.Info("email saved", sl.UserID(req.UserID))
	render.JSON(w, r, response.OK())
}
