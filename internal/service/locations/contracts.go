package locations

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	Create(ctx context.Context, loc *domain.ServiceLocation) (*domain.ServiceLocation, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceLocation, error)
	UpdateConfig(ctx context.Context, locationID int64, cfg domain.TimeSlotsConfig) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
