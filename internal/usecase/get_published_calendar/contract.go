package get_published_calendar

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
	GetRange(ctx context.Context, locationID int64, from, to time.Time) ([]*domain.DaySlots, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
