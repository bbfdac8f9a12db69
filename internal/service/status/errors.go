package status

import "errors"

var (
	// ErrLocationNotFound локация не найдена
	ErrLocationNotFound = errors.New("location not found")

	// ErrAccessDenied пользователь не владелец локации
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal service error")
)
