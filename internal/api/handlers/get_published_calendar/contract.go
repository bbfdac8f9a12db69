package get_published_calendar

import (
	"context"

	getPublishedCalendarUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/get_published_calendar"
)

type GetPublishedCalendarUseCase interface {
	Execute(ctx context.Context, req *getPublishedCalendarUC.Request) (*getPublishedCalendarUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
