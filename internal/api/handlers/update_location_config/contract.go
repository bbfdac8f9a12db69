package update_location_config

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/service/locations/models"
)

type LocationService interface {
	UpdateConfig(ctx context.Context, locationID int64, req models.UpdateConfigRequest) (*models.LocationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
