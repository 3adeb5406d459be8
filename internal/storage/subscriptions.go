package storage

import (
	"context"
	"fmt"
)

// Subscribe подписывает пользователя на событие. Вставка атомарна:
// повторная подписка той же пары (пользователь, событие) — тихий no-op.
// Существование события здесь не проверяется.
func (s *Storage) Subscribe(ctx context.Context, userID int64, eventID string) error {
	const op = "storage.Subscribe"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_id, event_id)
			  VALUES ($1, $2)
			  ON CONFLICT (user_id, event_id) DO NOTHING`
	_, err := s.DB.ExecContext(ctx, query, userID, eventID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountSubscribers возвращает число подписчиков события.
func (s *Storage) CountSubscribers(ctx context.Context, eventID string) (int, error) {
	const op = "storage.CountSubscribers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM subscriptions WHERE event_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
