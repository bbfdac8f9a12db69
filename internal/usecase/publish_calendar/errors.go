package publish_calendar

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("publish_calendar: location not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец локации
	ErrAccessDenied = errors.New("publish_calendar: access denied")

	// ErrInvalidConfig возвращается при некорректной конфигурации расписания
	ErrInvalidConfig = errors.New("publish_calendar: invalid schedule config")

	// ErrInvalidDateRange возвращается при некорректном диапазоне дат
	ErrInvalidDateRange = errors.New("publish_calendar: invalid date range")

	// ErrConcurrencyConflict возвращается, когда публикация дня не удалась
	// из-за параллельных обновлений после всех повторов
	ErrConcurrencyConflict = errors.New("publish_calendar: concurrent updates, retries exhausted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("publish_calendar: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("publish_calendar: internal error")
)
