// Package message реализует HTTP-обработчик свободного текста из чата.
//
// Это граница диалоговой машины. Если от пользователя ждут строку с
// событием, сообщение трактуется как заявка; независимо от исхода
// пользователь возвращается в обычное состояние, и никакая ошибка
// здесь не фатальна — она превращается в текст для отправителя.
// Команда /start от ожидающего пользователя отменяет создание.
// Иначе сообщение проверяется на deep-link "/start event_<ID>",
// а всё прочее помечается как необработанное и уходит дальше.
package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/anastasiapp/qa-start-tg-bot/internal/http/response"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/sl"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/timeutil"
	eventservice "github.com/anastasiapp/qa-start-tg-bot/internal/services/event"
	"github.com/anastasiapp/qa-start-tg-bot/internal/storage"
	"github.com/anastasiapp/qa-start-tg-bot/internal/submission"
)

var deepLinkRe = regexp.MustCompile(`/start\s+event_([\w-]+)`)

// Request — тело входящего сообщения.
type Request struct {
	UserID int64  `json:"user_id" validate:"required"`
	Text   string `json:"text"`
}

// Service описывает интерфейс бизнес-логики, нужной обработчику.
type Service interface {
	CreateFromLine(ctx context.Context, callerID int64, line string) (string, string, error)
	Get(ctx context.Context, id string) (*eventservice.Card, error)
}

// Dialog описывает работу с режимом ожидания заявки.
type Dialog interface {
	Awaiting(userID int64) bool
	Consume(userID int64) bool
	Cancel(userID int64)
}

// Handler управляет HTTP-запросами со свободным текстом.
type Handler struct {
	log      *slog.Logger
	service  Service
	dialog   Dialog
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, dialog Dialog) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		dialog:   dialog,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обработать свободный текст пользователя
// @Description Сообщение от ожидающего админа разбирается как заявка на событие; deep-link открывает карточку; остальное помечается как необработанное.
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body Request true "Сообщение пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Событие из deep-link не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или заявки"
// @Router /messages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.message"
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

	// /start от ожидающего пользователя — отмена создания, как и
	// обещает приглашение; deep-link при этом всё равно открывается.
	if strings.HasPrefix(strings.TrimSpace(req.Text), "/start") && h.dialog.Awaiting(req.UserID) {
		h.dialog.Cancel(req.UserID)
		log.Info("event creation cancelled", sl.UserID(req.UserID))
		if m := deepLinkRe.FindStringSubmatch(req.Text); m != nil {
			h.handleDeepLink(w, r, log, m[1])
			return
		}
		render.JSON(w, r, response.OKWithData(map[string]any{
			"handled": true,
			"message": "Создание события отменено.",
		}))
		return
	}

	// Consume заодно возвращает пользователя в Idle, что бы ни
	// случилось с заявкой дальше.
	if h.dialog.Consume(req.UserID) {
		h.handleSubmission(w, r, log, req)
		return
	}

	if m := deepLinkRe.FindStringSubmatch(req.Text); m != nil {
		h.handleDeepLink(w, r, log, m[1])
		return
	}

	// не наше сообщение, пусть разбирают другие обработчики
	render.JSON(w, r, response.OKWithData(map[string]any{
		"handled": false,
	}))
}

func (h *Handler) handleSubmission(w http.ResponseWriter, r *http.Request, log *slog.Logger, req Request) {
	id, title, err := h.service.CreateFromLine(r.Context(), req.UserID, req.Text)
	if err != nil {
		var parseErr *timeutil.ParseError
		var formatErr *submission.FormatError

		msg := "Не получилось создать событие, попробуйте ещё раз."
		switch {
		case errors.As(err, &parseErr):
			msg = parseErr.Error()
		case errors.As(err, &formatErr):
			msg = formatErr.Error()
		default:
			log.Error("failed to create event", sl.Err(err), sl.UserID(req.UserID))
		}

		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(fmt.Sprintf("Ошибка: %s", msg)))
		return
	}

	log.Info("event created from submission", slog.String("event_id", id), sl.UserID(req.UserID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"handled":  true,
		"event_id": id,
		"title":    title,
		"message":  fmt.Sprintf("Создано: %s\nID: %s\nСсылка для подписки: /start event_%s", title, id, id),
	}))
}

func (h *Handler) handleDeepLink(w http.ResponseWriter, r *http.Request, log *slog.Logger, id string) {
	card, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Событие не найдено или отменено."))
			return
		}
		log.Error("failed to get event by deep link", sl.Err(err), slog.String("event_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get event"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"handled": true,
		"event":   card,
		"message": fmt.Sprintf("Событие: %s\nКогда: %s\nСсылка: %s", card.Title, card.StartLocal, card.MeetingURL),
	}))
}
