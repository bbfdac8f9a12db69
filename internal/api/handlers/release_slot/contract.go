package release_slot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type ReservationCoordinator interface {
	Release(ctx context.Context, locationID int64, date time.Time, startTime types.TimeString) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
