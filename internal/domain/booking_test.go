package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

func TestBookingTransitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.from}
		assert.Equal(t, tt.allowed, b.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestBookingTerminalStates(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusCancelled}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusPending}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusInProgress}).IsTerminal())
}

func TestBookingIsActive(t *testing.T) {
	// Слот держат все статусы, кроме отменённого
	for _, status := range ValidStatuses {
		b := &Booking{Status: status}
		assert.Equal(t, status != StatusCancelled, b.IsActive(), "status %s", status)
	}
}

func TestBookingCanCancelAt(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	booking := &Booking{
		Status:      StatusConfirmed,
		BookingDate: date,
		StartTime:   types.TimeString("14:00"),
	}

	// Больше двух часов до начала
	assert.True(t, booking.CanCancelAt(time.Date(2025, 6, 2, 11, 59, 0, 0, time.UTC)))

	// Ровно два часа - уже поздно
	assert.False(t, booking.CanCancelAt(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)))

	// Меньше двух часов
	assert.False(t, booking.CanCancelAt(time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)))

	// После начала
	assert.False(t, booking.CanCancelAt(time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)))

	// Статус вне pending/confirmed не отменяется даже заранее
	booking.Status = StatusInProgress
	assert.False(t, booking.CanCancelAt(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
}
