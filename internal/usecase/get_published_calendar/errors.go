package get_published_calendar

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("get_published_calendar: location not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец локации
	ErrAccessDenied = errors.New("get_published_calendar: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_published_calendar: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_published_calendar: internal error")
)
