package domain

import "time"

// Default configuration values
const (
	DefaultIntervalMinutes = 30
)

// Business validation constants
const (
	MinIntervalMinutes = 5
	MaxIntervalMinutes = 480 // 8 hours

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxBreakLabelLength         = 100
)

// Cancellation policy
const (
	// CancellationNoticeHours минимальное время до начала бронирования,
	// при котором клиент ещё может отменить его самостоятельно
	CancellationNoticeHours = 2
)

// Real-time status
const (
	// QueueSlotMinutes оценка времени обслуживания одной машины в очереди
	// estimatedWaitTime = currentWaitTime + currentQueue * QueueSlotMinutes
	QueueSlotMinutes = 15
)

// Reservation retry policy
const (
	// ReserveMaxAttempts число попыток read-check-write цикла при конфликте версий
	ReserveMaxAttempts = 3
	// ReserveRetryBackoff базовая задержка между попытками (умножается на номер попытки)
	ReserveRetryBackoff = 25 * time.Millisecond
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Weekday names, как они хранятся в конфигурации рабочих дней
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// WeekdayName возвращает имя дня недели в формате конфигурации
func WeekdayName(d time.Weekday) string {
	switch d {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}
