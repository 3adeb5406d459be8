// Package storage реализует хранилище данных бота на основе PostgreSQL:
// события, пользователей и подписки. Хранилище единолично владеет
// строками таблиц, наружу отдаются только копии. Ошибки базы не
// переводятся в доменные, кроме отдельного случая «событие не найдено».
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrEventNotFound возвращается, когда события нет или оно отменено.
// Снаружи эти два случая неразличимы.
var ErrEventNotFound = errors.New("event not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'events'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table events missing or query error: %w", err)
	}
	return nil
}
