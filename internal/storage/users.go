package storage

import (
	"context"
	"fmt"
)

// EnsureUser сохраняет пользователя при первом обращении.
// Если пользователь уже есть, ничего не меняется: сохранённое имя
// не перезаписывается.
func (s *Storage) EnsureUser(ctx context.Context, id int64, username *string) error {
	const op = "storage.EnsureUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (id, username)
			  VALUES ($1, $2)
			  ON CONFLICT (id) DO NOTHING`
	_, err := s.DB.ExecContext(ctx, query, id, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveEmail сохраняет адрес почты пользователя без какой-либо проверки,
// сбрасывая признак подтверждения. Возвращает число затронутых строк.
func (s *Storage) SaveEmail(ctx context.Context, id int64, email string) (int, error) {
	const op = "storage.SaveEmail"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET email = $1, email_verified = FALSE
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, email, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
