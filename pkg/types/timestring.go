package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeString возвращается при некорректном формате строки времени
var ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")

// TimeString строка времени в формате HH:MM ("10:00", "18:30")
// Используется для времени начала слотов и границ рабочего дня
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет, что строка соответствует формату HH:MM
func (t TimeString) Validate() error {
	if _, err := time.Parse("15:04", string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// minutesOfDay возвращает количество минут с начала суток
// Допускает значения за пределами 23:59 (например "24:00" как конец рабочего дня)
func (t TimeString) minutesOfDay() (int, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(string(t), "%d:%d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return hours*60 + minutes, nil
}

// AddMinutes возвращает время, сдвинутое на m минут вперёд
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	total, err := t.minutesOfDay()
	if err != nil {
		return "", err
	}
	total += m
	if total < 0 {
		return "", fmt.Errorf("%w: negative result", ErrInvalidTimeString)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore возвращает true, если t строго раньше other
// Некорректные значения считаются равными (сравнение не падает)
func (t TimeString) IsBefore(other TimeString) bool {
	a, err1 := t.minutesOfDay()
	b, err2 := other.minutesOfDay()
	if err1 != nil || err2 != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, err1 := t.minutesOfDay()
	b, err2 := other.minutesOfDay()
	if err1 != nil || err2 != nil {
		return false
	}
	return a > b
}

// Equal возвращает true, если времена совпадают с точностью до минуты
func (t TimeString) Equal(other TimeString) bool {
	a, err1 := t.minutesOfDay()
	b, err2 := other.minutesOfDay()
	if err1 != nil || err2 != nil {
		return t == other
	}
	return a == b
}

// At совмещает дату и время в один момент time.Time (в локации даты)
func (t TimeString) At(date time.Time) (time.Time, error) {
	total, err := t.minutesOfDay()
	if err != nil {
		return time.Time{}, err
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(time.Duration(total) * time.Minute), nil
}
