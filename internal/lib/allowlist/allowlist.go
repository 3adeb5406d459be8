// Package allowlist реализует статический список администраторов.
// Список задаётся строкой из конфигурации вида "123456789,987654321";
// никакой другой авторизации в боте нет.
package allowlist

import (
	"strconv"
	"strings"
)

// List — неизменяемый набор идентификаторов администраторов.
// После создания список не меняется, поэтому читать его можно
// из любого числа горутин без синхронизации.
type List struct {
	ids map[int64]struct{}
}

// Parse разбирает строку с идентификаторами через запятую.
// Пустые и нечисловые элементы молча пропускаются.
func Parse(raw string) *List {
	ids := make(map[int64]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids[id] = struct{}{}
	}
	return &List{ids: ids}
}

// Contains сообщает, есть ли идентификатор в списке.
func (l *List) Contains(id int64) bool {
	_, ok := l.ids[id]
	return ok
}

// Len возвращает количество администраторов.
func (l *List) Len() int {
	return len(l.ids)
}
