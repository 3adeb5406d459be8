// Package timeutil отвечает за нормализацию дат и времени.
//
// Организаторы вводят время «по-человечески», в нескольких привычных
// форматах и в местном часовом поясе. В хранилище всё попадает одной
// канонической строкой — ISO-8601 в UTC с суффиксом Z и миллисекундной
// точностью. Обратное преобразование нужно только для показа.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// UTCLayout — канонический формат хранения момента времени.
const UTCLayout = "2006-01-02T15:04:05.000Z"

const displayLayout = "02 Jan 2006, 15:04"

// Порядок попыток разбора фиксирован: сначала свободный ISO,
// затем "yyyy-MM-dd HH:mm", затем "dd.MM.yyyy HH:mm". Порядок важен:
// некоторые строки подходят сразу под несколько форматов.
var parseLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01-02 15:04",
	"02.01.2006 15:04",
}

// acceptedExamples — примеры форматов для подсказки в ошибке.
var acceptedExamples = []string{
	"2025-12-15 19:00",
	"2025-12-15T19:00",
	"15.12.2025 19:00",
}

// ParseError возвращается, когда строка не подошла ни под один формат.
// Содержит исходный ввод и список принимаемых примеров: текст ошибки
// показывается отправителю без изменений.
type ParseError struct {
	Input   string
	Formats []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("не удалось распознать дату/время: %q, попробуйте форматы: %s",
		e.Input, strings.Join(e.Formats, " или "))
}

// Normalizer переводит местное время в UTC и обратно.
// Часовой пояс один на процесс и задаётся конфигурацией,
// индивидуальные пояса пользователей пока не используются.
type Normalizer struct {
	loc *time.Location
}

// New создает Normalizer для часового пояса с данным именем,
// например "Europe/Lisbon".
func New(timezone string) (*Normalizer, error) {
	const op = "timeutil.New"

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Normalizer{loc: loc}, nil
}

// Location возвращает настроенный часовой пояс.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// ToUTC разбирает строку местного времени и возвращает канонический
// момент в UTC. Лишние пробелы внутри строки схлопываются. Если ни один
// формат не подошёл, возвращается *ParseError с исходной строкой.
func (n *Normalizer) ToUTC(input string) (string, error) {
	normalized := strings.Join(strings.Fields(input), " ")

	for _, layout := range parseLayouts {
		t, err := time.ParseInLocation(layout, normalized, n.loc)
		if err == nil {
			return UTCString(t), nil
		}
	}

	return "", &ParseError{Input: input, Formats: acceptedExamples}
}

// FromUTC восстанавливает календарное время в настроенном поясе
// из канонической UTC-строки. Используется только для показа.
func (n *Normalizer) FromUTC(isoUTC string) (time.Time, error) {
	const op = "timeutil.FromUTC"

	t, err := time.Parse(UTCLayout, isoUTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t.In(n.loc), nil
}

// FormatLocal возвращает человекочитаемую строку вида
// "15 Dec 2025, 19:00" в настроенном часовом поясе.
func (n *Normalizer) FormatLocal(isoUTC string) (string, error) {
	t, err := n.FromUTC(isoUTC)
	if err != nil {
		return "", err
	}
	return t.Format(displayLayout), nil
}

// UTCString сериализует момент времени в канонический вид хранения.
func UTCString(t time.Time) string {
	return t.UTC().Format(UTCLayout)
}
