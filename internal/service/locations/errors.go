package locations

import "errors"

var (
	// ErrLocationNotFound локация не найдена
	ErrLocationNotFound = errors.New("location not found")

	// ErrAccessDenied доступ запрещён (не владелец локации)
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidConfig некорректная конфигурация расписания
	ErrInvalidConfig = errors.New("invalid schedule config")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal service error")
)
