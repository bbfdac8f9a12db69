package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// allowedTransitions граф переходов жизненного цикла бронирования
// completed и cancelled - терминальные статусы
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// Booking represents a service booking in the system
type Booking struct {
	ID          int64
	UserID      string // Идентификатор клиента из сервиса аутентификации (opaque)
	LocationID  int64
	ServiceID   int64
	BookingDate time.Time
	StartTime   types.TimeString
	Status      BookingStatus

	// Denormalized data for history
	ServiceName     string
	ServicePrice    float64
	CustomerName    string
	CustomerPhone   string
	CarBrand        *string
	CarModel        *string
	CarLicensePlate *string
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds its slot
// Только отменённые бронирования освобождают слот
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// CanTransitionTo returns true if the lifecycle graph allows moving to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanBeCancelled returns true if the booking is in a cancellable state
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeUpdated returns true if the booking fields can still be edited
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// StartDateTime совмещает дату и время начала бронирования в один момент
func (b *Booking) StartDateTime() (time.Time, error) {
	return b.StartTime.At(b.BookingDate)
}

// CanCancelAt проверяет политику отмены для клиента:
// статус pending/confirmed и до начала бронирования больше CancellationNoticeHours
func (b *Booking) CanCancelAt(now time.Time) bool {
	if !b.CanBeCancelled() {
		return false
	}
	start, err := b.StartDateTime()
	if err != nil {
		return false
	}
	return start.Sub(now) > CancellationNoticeHours*time.Hour
}

// ValidStatuses список всех допустимых статусов бронирования
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}
