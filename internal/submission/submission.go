// Package submission разбирает строку заявки на новое событие.
//
// Ожидаемый формат — пять полей через вертикальную черту:
//
//	Название | 2025-12-15 19:00 | 60 | https://meet.link | public
//
// Последнее поле с видимостью необязательно, по умолчанию событие
// публичное. Поля проверяются по порядку, первая же ошибка прерывает
// разбор. Какое именно поле не подошло, отправителю не сообщается —
// только общий шаблон формата. Ошибка разбора даты — исключение:
// она своя и показывается как есть.
package submission

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/anastasiapp/qa-start-tg-bot/internal/lib/timeutil"
	"github.com/anastasiapp/qa-start-tg-bot/internal/models"
)

// Usage — шаблон строки, который показывается при любой ошибке формата.
const Usage = "Название | YYYY-MM-DD HH:mm | 60 | https://link | public"

const (
	minTitleLen    = 2
	minDateTimeLen = 10
	fieldsRequired = 4
	fieldsMax      = 5
)

// FormatError возвращается при нарушении структуры строки.
// Сообщение всегда одно и то же, без указания поля.
type FormatError struct{}

func (e *FormatError) Error() string {
	return "Формат: " + Usage
}

// fieldValidator — именованная проверка одного поля.
// Имя нужно только для читаемости списка, наружу оно не попадает.
type fieldValidator struct {
	name  string
	check func(s string) bool
}

// Проверки идут строго в порядке полей строки, первая неудача — отказ.
var validators = []fieldValidator{
	{name: "title", check: func(s string) bool {
		return utf8.RuneCountInString(s) >= minTitleLen
	}},
	{name: "datetime", check: func(s string) bool {
		// грубый фильтр длины, настоящий разбор делает timeutil
		return utf8.RuneCountInString(s) >= minDateTimeLen
	}},
	{name: "duration", check: func(s string) bool {
		d, err := strconv.Atoi(s)
		return err == nil && d > 0
	}},
	{name: "meeting_url", check: func(s string) bool {
		u, err := url.Parse(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	}},
	{name: "visibility", check: func(s string) bool {
		return s == "" || s == "public" || s == "private"
	}},
}

// Parse разбирает строку заявки и возвращает готовый к записи черновик
// события. Дата и время из второго поля нормализуются через tz;
// ошибка нормализации пробрасывается без изменений.
func Parse(line string, tz *timeutil.Normalizer) (*models.EventDraft, error) {
	fields := strings.Split(line, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if len(fields) < fieldsRequired || len(fields) > fieldsMax {
		return nil, &FormatError{}
	}
	if len(fields) == fieldsRequired {
		fields = append(fields, "")
	}

	for i, v := range validators {
		if !v.check(fields[i]) {
			return nil, &FormatError{}
		}
	}

	startAt, err := tz.ToUTC(fields[1])
	if err != nil {
		return nil, err
	}

	// после валидации Atoi не может не сработать
	duration, _ := strconv.Atoi(fields[2])

	return &models.EventDraft{
		Title:       fields[0],
		StartAt:     startAt,
		DurationMin: duration,
		MeetingURL:  fields[3],
		IsPublic:    fields[4] != "private",
	}, nil
}
