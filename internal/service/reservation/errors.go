package reservation

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда слот не существует в ledger'е
	// или уже удержан другим бронированием
	ErrSlotUnavailable = errors.New("reservation: slot is not available")

	// ErrConcurrencyConflict возвращается, когда все попытки read-check-write
	// цикла исчерпаны из-за конкурентных записей
	ErrConcurrencyConflict = errors.New("reservation: concurrent updates, retries exhausted")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservation: internal error")
)
