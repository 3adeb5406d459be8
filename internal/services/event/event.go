// Package event содержит бизнес-логику работы с событиями: создание из
// строки заявки, выдачу карточек и анонсов, регистрацию пользователей и
// подписки. Чтение идёт через кеш; создание и отмена его сбрасывают.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/sl"
	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/timeutil"
	"github.com/anastasiapp/qa-start-tg-bot/internal/models"
	"github.com/anastasiapp/qa-start-tg-bot/internal/submission"
)

const (
	upcomingCacheKey = "events:upcoming"
	upcomingCacheMax = 50
	cacheTTL         = time.Hour
)

// Repository определяет методы хранилища, нужные сервису.
type Repository interface {
	// CreateEvent сохраняет черновик и возвращает идентификатор события.
	CreateEvent(ctx context.Context, draft models.EventDraft, createdBy *int64) (string, error)
	// GetEvent возвращает неотменённое событие или storage.ErrEventNotFound.
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	// ListUpcomingPublic возвращает публичные события с началом не раньше from.
	ListUpcomingPublic(ctx context.Context, from string, limit int) ([]*models.EventSummary, error)
	// CancelEvent помечает событие отменённым, возвращает число строк.
	CancelEvent(ctx context.Context, id string) (int, error)
	// EnsureUser создаёт пользователя, если его ещё нет.
	EnsureUser(ctx context.Context, id int64, username *string) error
	// Subscribe атомарно добавляет подписку, дубликат — no-op.
	Subscribe(ctx context.Context, userID int64, eventID string) error
	// CountSubscribers возвращает число подписчиков события.
	CountSubscribers(ctx context.Context, eventID string) (int, error)
	// SaveEmail сохраняет непроверенный адрес почты пользователя.
	SaveEmail(ctx context.Context, id int64, email string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// UpcomingEvent — строка списка анонсов с уже отформатированным
// местным временем.
type UpcomingEvent struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	StartAt    string `json:"start_at"`
	StartLocal string `json:"start_local"`
	MeetingURL string `json:"meeting_url"`
}

// Card — полная карточка события для показа пользователю.
type Card struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartAt     string `json:"start_at"`
	StartLocal  string `json:"start_local"`
	DurationMin int    `json:"duration_min"`
	MeetingURL  string `json:"meeting_url"`
	IsPublic    bool   `json:"is_public"`
	Subscribers int    `json:"subscribers"`
}

// Service реализует бизнес-логику событий и подписок.
type Service struct {
	repo  Repository
	cache Cache
	tz    *timeutil.Normalizer
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, tz *timeutil.Normalizer, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		tz:    tz,
		log:   log,
	}
}

// Register сохраняет пользователя при первом обращении.
func (s *Service) Register(ctx context.Context, userID int64, username *string) error {
	return s.repo.EnsureUser(ctx, userID, username)
}

// CreateFromLine разбирает строку заявки и создаёт событие от имени
// callerID. Возвращает идентификатор и название созданного события.
// Ошибки разбора возвращаются как есть, чтобы их можно было показать
// отправителю дословно.
func (s *Service) CreateFromLine(ctx context.Context, callerID int64, line string) (string, string, error) {
	draft, err := submission.Parse(line, s.tz)
	if err != nil {
		return "", "", err
	}

	id, err := s.repo.CreateEvent(ctx, *draft, &callerID)
	if err != nil {
		return "", "", err
	}
	s.log.Info("created new event", slog.String("event_id", id), sl.UserID(callerID))

	if err := s.cache.Invalidate(ctx, upcomingCacheKey); err != nil {
		s.log.Warn("failed to invalidate upcoming cache", sl.Err(err))
	}

	return id, draft.Title, nil
}

// Upcoming возвращает до limit ближайших публичных событий.
// Список кешируется целиком одним ключом и режется под limit,
// поэтому отмена или создание события сбрасывают ровно один ключ.
func (s *Service) Upcoming(ctx context.Context, limit int) ([]UpcomingEvent, error) {
	if limit <= 0 || limit > upcomingCacheMax {
		limit = upcomingCacheMax
	}

	now := timeutil.UTCString(time.Now())

	var cached []UpcomingEvent
	found, err := s.cache.Get(ctx, upcomingCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read upcoming cache", sl.Err(err))
	}
	if found {
		// Кеш наполнялся раньше, часть событий могла уже начаться.
		// Канонические UTC-строки сравниваются лексикографически.
		fresh := cached[:0]
		for _, e := range cached {
			if e.StartAt >= now {
				fresh = append(fresh, e)
			}
		}
		if len(fresh) > limit {
			fresh = fresh[:limit]
		}
		return fresh, nil
	}

	summaries, err := s.repo.ListUpcomingPublic(ctx, now, upcomingCacheMax)
	if err != nil {
		return nil, err
	}

	result := make([]UpcomingEvent, 0, len(summaries))
	for _, e := range summaries {
		local, err := s.tz.FormatLocal(e.StartAt)
		if err != nil {
			return nil, fmt.Errorf("format start of %s: %w", e.ID, err)
		}
		result = append(result, UpcomingEvent{
			ID:         e.ID,
			Title:      e.Title,
			StartAt:    e.StartAt,
			StartLocal: local,
			MeetingURL: e.MeetingURL,
		})
	}

	if err := s.cache.Set(ctx, upcomingCacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache upcoming events", sl.Err(err))
	}

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Get возвращает карточку события. Отменённые и несуществующие события
// одинаково дают storage.ErrEventNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Card, error) {
	cacheKey := fmt.Sprintf("event:%s", id)

	var cached Card
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read event cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	local, err := s.tz.FormatLocal(e.StartAt)
	if err != nil {
		return nil, fmt.Errorf("format start of %s: %w", e.ID, err)
	}
	subscribers, err := s.repo.CountSubscribers(ctx, id)
	if err != nil {
		return nil, err
	}

	card := &Card{
		ID:          e.ID,
		Title:       e.Title,
		StartAt:     e.StartAt,
		StartLocal:  local,
		DurationMin: e.DurationMin,
		MeetingURL:  e.MeetingURL,
		IsPublic:    e.IsPublic,
		Subscribers: subscribers,
	}

	if err := s.cache.Set(ctx, cacheKey, card, cacheTTL); err != nil {
		s.log.Warn("failed to cache event", slog.String("key", cacheKey), sl.Err(err))
	}
	return card, nil
}

// Subscribe подписывает пользователя на событие; повтор — no-op.
// Существование события не проверяется, карточка считается уже
// найденной на стороне вызывающего.
func (s *Service) Subscribe(ctx context.Context, userID int64, eventID string) error {
	if err := s.repo.Subscribe(ctx, userID, eventID); err != nil {
		return err
	}
	// счётчик подписчиков в карточке устарел
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("event:%s", eventID)); err != nil {
		s.log.Warn("failed to invalidate event cache", sl.Err(err))
	}
	return nil
}

// Cancel помечает событие отменённым. Возвращает false, если события
// нет или оно уже отменено.
func (s *Service) Cancel(ctx context.Context, id string) (bool, error) {
	affected, err := s.repo.CancelEvent(ctx, id)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}
	s.log.Info("event cancelled", slog.String("event_id", id))

	for _, key := range []string{fmt.Sprintf("event:%s", id), upcomingCacheKey} {
		if err := s.cache.Invalidate(ctx, key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
		}
	}
	return true, nil
}

// SaveEmail сохраняет почту пользователя. Адрес не проверяется,
// подтверждение почты пока не реализовано.
func (s *Service) SaveEmail(ctx context.Context, userID int64, email string) error {
	affected, err := s.repo.SaveEmail(ctx, userID, email)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUnknownUser
	}
	return nil
}

// ErrUnknownUser возвращается при попытке сохранить почту для
// незарегистрированного пользователя.
var ErrUnknownUser = errors.New("unknown user")
