package reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// LedgerRepository интерфейс репозитория ledger'а слотов
type LedgerRepository interface {
	GetDay(ctx context.Context, locationID int64, date time.Time) (*domain.DaySlots, error)
	UpdateSlots(ctx context.Context, locationID int64, date time.Time, slots []domain.TimeSlot, expectedVersion int64) error
}

// ConflictMetrics счётчик конфликтов оптимистичной блокировки (опционально)
type ConflictMetrics interface {
	IncReservationConflict(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
