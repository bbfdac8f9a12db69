package transition_booking

import "context"

type BookingService interface {
	Confirm(ctx context.Context, bookingID int64, userID string) error
	Start(ctx context.Context, bookingID int64, userID string) error
	Complete(ctx context.Context, bookingID int64, userID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
