package models

import "time"

// Subscription связывает пользователя и событие. Пара (UserID, EventID)
// уникальна: повторная подписка ничего не меняет. Отписка не
// предусмотрена, записи живут вместе с событием.
type Subscription struct {
	UserID    int64
	EventID   string
	CreatedAt time.Time
}
