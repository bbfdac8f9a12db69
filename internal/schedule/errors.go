package schedule

import "errors"

var (
	// ErrConfig возвращается при некорректной конфигурации рабочих часов
	// Генерация не производит частичного результата
	ErrConfig = errors.New("schedule: invalid slots config")

	// ErrInvalidDateRange возвращается, когда endDate раньше startDate
	ErrInvalidDateRange = errors.New("schedule: invalid date range")
)
