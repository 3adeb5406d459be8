package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/anastasiapp/qa-start-tg-bot/internal/models"
)

// CreateEvent сохраняет новое событие и возвращает его идентификатор.
// Идентификатор генерируется здесь и никогда не переиспользуется.
func (s *Storage) CreateEvent(ctx context.Context, draft models.EventDraft, createdBy *int64) (string, error) {
	const op = "storage.CreateEvent"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	id := uuid.NewString()

	query := `INSERT INTO events (id, title, description, start_at, duration_min,
			      meeting_url, is_public, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.DB.ExecContext(ctx, query,
		id, draft.Title, draft.Description, draft.StartAt, draft.DurationMin,
		draft.MeetingURL, draft.IsPublic, createdBy)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetEvent возвращает событие по идентификатору. Отменённые события и
// несуществующие идентификаторы дают одинаковый ErrEventNotFound.
func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	const op = "storage.GetEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, start_at, duration_min, meeting_url,
			      is_public, created_by, created_at, updated_at, cancelled_at
			  FROM events
			  WHERE id = $1 AND cancelled_at IS NULL`
	row := s.DB.QueryRowContext(ctx, query, id)

	var e models.Event
	var updatedAt, cancelledAt sql.NullTime
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartAt, &e.DurationMin,
		&e.MeetingURL, &e.IsPublic, &e.CreatedBy, &e.CreatedAt, &updatedAt, &cancelledAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if updatedAt.Valid {
		e.UpdatedAt = &updatedAt.Time
	}
	if cancelledAt.Valid {
		e.CancelledAt = &cancelledAt.Time
	}
	return &e, nil
}

// ListUpcomingPublic возвращает неотменённые публичные события,
// начинающиеся не раньше from (UTC ISO-строка), по возрастанию начала.
// При равном начале порядок определяет идентификатор.
func (s *Storage) ListUpcomingPublic(ctx context.Context, from string, limit int) ([]*models.EventSummary, error) {
	const op = "storage.ListUpcomingPublic"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, start_at, meeting_url
			  FROM events
			  WHERE cancelled_at IS NULL
			    AND is_public
			    AND start_at >= $1
			  ORDER BY start_at, id
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, from, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.EventSummary
	for rows.Next() {
		var item models.EventSummary
		if err := rows.Scan(&item.ID, &item.Title, &item.StartAt, &item.MeetingURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CancelEvent помечает событие отменённым и возвращает число затронутых
// строк. Строка остаётся в таблице для аудита, но пропадает из выборок.
func (s *Storage) CancelEvent(ctx context.Context, id string) (int, error) {
	const op = "storage.CancelEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE events
			  SET cancelled_at = now()
			  WHERE id = $1 AND cancelled_at IS NULL`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
