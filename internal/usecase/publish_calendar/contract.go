package publish_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceLocation, error)
}

// LedgerRepository интерфейс хранилища опубликованных слотов
type LedgerRepository interface {
	GetDay(ctx context.Context, locationID int64, date time.Time) (*domain.DaySlots, error)
	InsertDay(ctx context.Context, locationID int64, date time.Time, slots []domain.TimeSlot) error
	UpdateSlots(ctx context.Context, locationID int64, date time.Time, slots []domain.TimeSlot, expectedVersion int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
