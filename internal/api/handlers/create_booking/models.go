package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	createBookingUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	LocationID    int64  `json:"locationId"`
	ServiceID     int64  `json:"serviceId"`
	Date          string `json:"date"`      // YYYY-MM-DD
	StartTime     string `json:"startTime"` // HH:MM
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`

	CarBrand        *string `json:"carBrand,omitempty"`
	CarModel        *string `json:"carModel,omitempty"`
	CarLicensePlate *string `json:"carLicensePlate,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *CreateBookingRequest) ToUseCaseRequest(userID string) (*createBookingUC.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime %q: %w", r.StartTime, err)
	}

	return &createBookingUC.Request{
		UserID:          userID,
		LocationID:      r.LocationID,
		ServiceID:       r.ServiceID,
		Date:            date,
		StartTime:       startTime,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CarBrand:        r.CarBrand,
		CarModel:        r.CarModel,
		CarLicensePlate: r.CarLicensePlate,
		Notes:           r.Notes,
	}, nil
}
