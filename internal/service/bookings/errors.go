package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition возвращается, когда запрошенный переход
	// недопустим из текущего статуса; статус при этом не меняется
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCancellationNotEligible возвращается, когда отмена запрошена вне
	// допустимого окна или из неотменяемого статуса
	ErrCancellationNotEligible = errors.New("booking is not eligible for cancellation")

	// ErrCannotUpdate возвращается при попытке редактировать бронирование
	// в нередактируемом статусе
	ErrCannotUpdate = errors.New("booking cannot be updated")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
