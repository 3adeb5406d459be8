package models

import "time"

// Event представляет запись события в хранилище.
// Поле StartAt хранится строкой ISO-8601 в UTC: такие строки
// сортируются лексикографически, и хранилищу не нужно знать про
// часовые пояса. Событие с заполненным CancelledAt считается
// удалённым и не видно ни в одной выборке.
type Event struct {
	ID          string     // Непрозрачный уникальный идентификатор
	Title       string     // Название события
	Description *string    // Описание (опционально)
	StartAt     string     // Начало в UTC, ISO-8601 с суффиксом Z
	DurationMin int        // Продолжительность в минутах, > 0
	MeetingURL  string     // Ссылка на встречу (Zoom/Meet и т.д.)
	IsPublic    bool       // Публичное или приватное событие
	CreatedBy   *int64     // Кто создал (идентификатор пользователя)
	CreatedAt   time.Time  // Когда создано
	UpdatedAt   *time.Time // Когда последний раз изменено
	CancelledAt *time.Time // Когда отменено (мягкое удаление)
}

// EventSummary — краткая карточка события для списка анонсов.
type EventSummary struct {
	ID         string
	Title      string
	StartAt    string
	MeetingURL string
}

// EventDraft — проверенный запрос на создание события,
// результат разбора строки из диалога создания.
type EventDraft struct {
	Title       string
	Description *string
	StartAt     string // Уже нормализованное в UTC время начала
	DurationMin int
	MeetingURL  string
	IsPublic    bool
}
