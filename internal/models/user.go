// Package models содержит доменные структуры бота: пользователей,
// события и подписки. Структуры используются в бизнес-логике и при
// работе с хранилищем.
package models

import "time"

// User представляет участника, написавшего боту хотя бы один раз.
// Идентификатор выдаёт платформа чата, он неизменяем. Пользователи
// никогда не удаляются.
type User struct {
	ID            int64     // Числовой идентификатор пользователя в чате
	Username      *string   // Отображаемое имя (может отсутствовать)
	Timezone      string    // Часовой пояс пользователя, пока общий для всех
	Email         *string   // Электронная почта (не проверяется)
	EmailVerified bool      // Признак подтверждённой почты
	CreatedAt     time.Time // Когда пользователь впервые написал боту
}
