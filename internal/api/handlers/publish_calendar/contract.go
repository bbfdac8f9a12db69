package publish_calendar

import (
	"context"

	publishCalendarUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/publish_calendar"
)

type PublishCalendarUseCase interface {
	Execute(ctx context.Context, req *publishCalendarUC.Request) (*publishCalendarUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
