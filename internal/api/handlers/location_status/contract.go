package location_status

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/service/status/models"
)

type StatusService interface {
	GetStatus(ctx context.Context, locationID int64) (*models.StatusResponse, error)
	UpdateStatus(ctx context.Context, locationID int64, userID string, req models.UpdateStatusRequest) (*models.StatusResponse, error)
	ToggleOpen(ctx context.Context, locationID int64, userID string) (*models.StatusResponse, error)
	UpdateWaitTime(ctx context.Context, locationID int64, userID string, req models.UpdateWaitTimeRequest) (*models.StatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
