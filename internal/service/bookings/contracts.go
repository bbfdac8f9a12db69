package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID string, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByLocationAndDate(ctx context.Context, locationID int64, date time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdateFields(ctx context.Context, id int64, fields bookingRepo.UpdateFields) error
	Cancel(ctx context.Context, id int64, reason string) error
	Delete(ctx context.Context, id int64) error
}

// LocationRepository интерфейс репозитория локаций (для проверки владельца)
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceLocation, error)
}

// ReservationCoordinator интерфейс координатора слотов
// Отмена/удаление бронирования обязаны освободить слот той же транзакцией
type ReservationCoordinator interface {
	Release(ctx context.Context, locationID int64, date time.Time, startTime types.TimeString) error
}

// Notifier хук отправки уведомлений о видимых пользователю изменениях статуса
type Notifier interface {
	Notify(ctx context.Context, bookingID int64, event string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
