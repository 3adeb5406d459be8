// Package newevent реализует HTTP-обработчик запуска создания события.
//
// Доступно только администраторам из статического списка. Пользователь
// переводится в режим ожидания: его следующее текстовое сообщение
// будет разобрано как заявка на событие.
package newevent

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/anastasiapp/qa-start-tg-bot/internal/http/response"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/allowlist"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/sl"
	"github.com/anastasiapp/qa-start-tg-bot/internal/submission"
)

// Prompt — приглашение, которое видит админ после запуска создания.
const Prompt = "Отправьте одной строкой:\n" + submission.Usage +
	"\n\n(Для отмены просто ничего не отправляйте или введите /start)"

// Request — тело запроса запуска создания события.
type Request struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// Dialog описывает переход пользователя в режим ожидания заявки.
type Dialog interface {
	Begin(userID int64)
}

// Handler управляет HTTP-запросами запуска создания события.
type Handler struct {
	log      *slog.Logger
	dialog   Dialog
	admins   *allowlist.List
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, dialog Dialog, admins *allowlist.List) *Handler {
	return &Handler{
		log:      log,
		dialog:   dialog,
		admins:   admins,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Начать создание события
// @Description Переводит администратора в режим ожидания строки с событием.
// @Tags Events
// @Accept json
// @Produce json
// @Param request body Request true "Идентификатор пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Пользователь не администратор"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /events/new [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newevent"
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
		log.Warn("newevent denied for non-admin", sl.UserID(req.UserID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("Только для админов."))
		return
	}

	h.dialog.Begin(req.UserID)
	log.Info("awaiting event submission", sl.UserID(req.UserID))

	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": Prompt,
	}))
}
