package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/timeutil"
	"github.com/anastasiapp/qa-start-tg-bot/internal/models"
	"github.com/anastasiapp/qa-start-tg-bot/internal/services/event"
	"github.com/anastasiapp/qa-start-tg-bot/internal/storage"
	"github.com/anastasiapp/qa-start-tg-bot/internal/submission"
)

type mockRepo struct {
	CreateEventFunc        func(ctx context.Context, draft models.EventDraft, createdBy *int64) (string, error)
	GetEventFunc           func(ctx context.Context, id string) (*models.Event, error)
	ListUpcomingPublicFunc func(ctx context.Context, from string, limit int) ([]*models.EventSummary, error)
	CancelEventFunc        func(ctx context.Context, id string) (int, error)
	EnsureUserFunc         func(ctx context.Context, id int64, username *string) error
	SubscribeFunc          func(ctx context.Context, userID int64, eventID string) error
	CountSubscribersFunc   func(ctx context.Context, eventID string) (int, error)
	SaveEmailFunc          func(ctx context.Context, id int64, email string) (int, error)
}

func (m *mockRepo) CreateEvent(ctx context.Context, draft models.EventDraft, createdBy *int64) (string, error) {
	return m.CreateEventFunc(ctx, draft, createdBy)
}

func (m *mockRepo) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return m.GetEventFunc(ctx, id)
}

func (m *mockRepo) ListUpcomingPublic(ctx context.Context, from string, limit int) ([]*models.EventSummary, error) {
	return m.ListUpcomingPublicFunc(ctx, from, limit)
}

func (m *mockRepo) CancelEvent(ctx context.Context, id string) (int, error) {
	return m.CancelEventFunc(ctx, id)
}

func (m *mockRepo) EnsureUser(ctx context.Context, id int64, username *string) error {
	return m.EnsureUserFunc(ctx, id, username)
}

func (m *mockRepo) Subscribe(ctx context.Context, userID int64, eventID string) error {
	return m.SubscribeFunc(ctx, userID, eventID)
}

func (m *mockRepo) CountSubscribers(ctx context.Context, eventID string) (int, error) {
	return m.CountSubscribersFunc(ctx, eventID)
}

func (m *mockRepo) SaveEmail(ctx context.Context, id int64, email string) (int, error) {
	return m.SaveEmailFunc(ctx, id, email)
}

// memCache — простой кеш в памяти вместо Redis.
type memCache struct {
	data        map[string][]byte
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, result any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Invalidate(_ context.Context, key string) error {
	delete(c.data, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func utcNormalizer(t *testing.T) *timeutil.Normalizer {
	n, err := timeutil.New("UTC")
	require.NoError(t, err)
	return n
}

func TestCreateFromLine_Success(t *testing.T) {
	var gotDraft models.EventDraft
	var gotCreator *int64
	repo := &mockRepo{
		CreateEventFunc: func(_ context.Context, draft models.EventDraft, createdBy *int64) (string, error) {
			gotDraft = draft
			gotCreator = createdBy
			return "evt-1", nil
		},
	}
	cache := newMemCache()
	svc := event.New(repo, cache, utcNormalizer(t), discardLogger())

	id, title, err := svc.CreateFromLine(context.Background(),
		42, "QA Sync | 2025-12-15 19:00 | 60 | https://meet.example/abc | public")
	require.NoError(t, err)

	assert.Equal(t, "evt-1", id)
	assert.Equal(t, "QA Sync", title)
	assert.Equal(t, "QA Sync", gotDraft.Title)
	assert.Equal(t, "2025-12-15T19:00:00.000Z", gotDraft.StartAt)
	assert.Equal(t, 60, gotDraft.DurationMin)
	assert.True(t, gotDraft.IsPublic)
	require.NotNil(t, gotCreator)
	assert.Equal(t, int64(42), *gotCreator)
	assert.Contains(t, cache.invalidated, "events:upcoming")
}

func TestCreateFromLine_MalformedLineDoesNotTouchStorage(t *testing.T) {
	repo := &mockRepo{
		CreateEventFunc: func(context.Context, models.EventDraft, *int64) (string, error) {
			t.Fatal("storage must not be called for a malformed line")
			return "", nil
		},
	}
	svc := event.New(repo, newMemCache(), utcNormalizer(t), discardLogger())

	_, _, err := svc.CreateFromLine(context.Background(), 42, "совсем не то")
	require.Error(t, err)

	var formatErr *submission.FormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestCreateFromLine_BadDate(t *testing.T) {
	svc := event.New(&mockRepo{}, newMemCache(), utcNormalizer(t), discardLogger())

	_, _, err := svc.CreateFromLine(context.Background(),
		42, "QA Sync | 2025-13-45 19:00 | 60 | https://meet.example/abc")
	require.Error(t, err)

	var parseErr *timeutil.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "2025-13-45 19:00", parseErr.Input)
}

func TestUpcoming_CacheMissThenHit(t *testing.T) {
	calls := 0
	repo := &mockRepo{
		ListUpcomingPublicFunc: func(_ context.Context, from string, _ int) ([]*models.EventSummary, error) {
			calls++
			return []*models.EventSummary{
				{ID: "a", Title: "Первое", StartAt: "2099-12-15T19:00:00.000Z", MeetingURL: "https://x.com/a"},
				{ID: "b", Title: "Второе", StartAt: "2099-12-16T19:00:00.000Z", MeetingURL: "https://x.com/b"},
			}, nil
		},
	}
	svc := event.New(repo, newMemCache(), utcNormalizer(t), discardLogger())

	got, err := svc.Upcoming(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "15 Dec 2099, 19:00", got[0].StartLocal)

	// второй вызов идёт из кеша
	got, err = svc.Upcoming(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, 1, calls)
}

func TestUpcoming_CacheHitDropsAlreadyStarted(t *testing.T) {
	repo := &mockRepo{
		ListUpcomingPublicFunc: func(context.Context, string, int) ([]*models.EventSummary, error) {
			t.Fatal("list must be served from cache")
			return nil, nil
		},
	}
	cache := newMemCache()
	require.NoError(t, cache.Set(context.Background(), "events:upcoming", []event.UpcomingEvent{
		{ID: "started", Title: "Уже идёт", StartAt: "2000-01-01T10:00:00.000Z"},
		{ID: "ahead", Title: "Ещё впереди", StartAt: "2999-01-01T10:00:00.000Z"},
	}, time.Hour))
	svc := event.New(repo, cache, utcNormalizer(t), discardLogger())

	got, err := svc.Upcoming(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ahead", got[0].ID)
}

func TestUpcoming_LimitIsCappedAtFifty(t *testing.T) {
	var gotLimit int
	repo := &mockRepo{
		ListUpcomingPublicFunc: func(_ context.Context, _ string, limit int) ([]*models.EventSummary, error) {
			gotLimit = limit
			return []*models.EventSummary{
				{ID: "a", Title: "Первое", StartAt: "2999-12-15T19:00:00.000Z", MeetingURL: "https://x.com/a"},
			}, nil
		},
	}
	svc := event.New(repo, newMemCache(), utcNormalizer(t), discardLogger())

	got, err := svc.Upcoming(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 50, gotLimit)
}

func TestGet_NotFoundPassesThrough(t *testing.T) {
	repo := &mockRepo{
		GetEventFunc: func(context.Context, string) (*models.Event, error) {
			return nil, storage.ErrEventNotFound
		},
	}
	svc := event.New(repo, newMemCache(), utcNormalizer(t), discardLogger())

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrEventNotFound)
}

func TestGet_BuildsCardAndCaches(t *testing.T) {
	repo := &mockRepo{
		GetEventFunc: func(_ context.Context, id string) (*models.Event, error) {
			return &models.Event{
				ID: id, Title: "QA Sync", StartAt: "2025-12-15T19:00:00.000Z",
				DurationMin: 60, MeetingURL: "https://meet.example/abc", IsPublic: true,
			}, nil
		},
		CountSubscribersFunc: func(context.Context, string) (int, error) { return 3, nil },
	}
	cache := newMemCache()
	svc := event.New(repo, cache, utcNormalizer(t), discardLogger())

	card, err := svc.Get(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "QA Sync", card.Title)
	assert.Equal(t, 3, card.Subscribers)
	assert.Equal(t, "15 Dec 2025, 19:00", card.StartLocal)
	assert.Contains(t, cache.data, "event:evt-1")
}

func TestCancel(t *testing.T) {
	repo := &mockRepo{
		CancelEventFunc: func(_ context.Context, id string) (int, error) {
			if id == "evt-1" {
				return 1, nil
			}
			return 0, nil
		},
	}
	cache := newMemCache()
	svc := event.New(repo, cache, utcNormalizer(t), discardLogger())

	ok, err := svc.Cancel(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, cache.invalidated, "event:evt-1")
	assert.Contains(t, cache.invalidated, "events:upcoming")

	ok, err = svc.Cancel(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscribe_InvalidatesCard(t *testing.T) {
	repo := &mockRepo{
		SubscribeFunc: func(context.Context, int64, string) error { return nil },
	}
	cache := newMemCache()
	svc := event.New(repo, cache, utcNormalizer(t), discardLogger())

	require.NoError(t, svc.Subscribe(context.Background(), 42, "evt-1"))
	assert.Contains(t, cache.invalidated, "event:evt-1")
}

func TestSaveEmail_UnknownUser(t *testing.T) {
	repo := &mockRepo{
		SaveEmailFunc: func(context.Context, int64, string) (int, error) { return 0, nil },
	}
	svc := event.New(repo, newMemCache(), utcNormalizer(t), discardLogger())

	err := svc.SaveEmail(context.Background(), 99, "qa@example.com")
	require.ErrorIs(t, err, event.ErrUnknownUser)
}
