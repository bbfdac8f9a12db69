package update_booking

import (
	"github.com/m04kA/SMC-ScheduleService/internal/service/bookings/models"
)

// UpdateBookingRequest HTTP request model
type UpdateBookingRequest struct {
	CustomerName    *string `json:"customerName,omitempty"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	CarBrand        *string `json:"carBrand,omitempty"`
	CarModel        *string `json:"carModel,omitempty"`
	CarLicensePlate *string `json:"carLicensePlate,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateBookingRequest) ToServiceRequest(userID string) *models.UpdateBookingRequest {
	return &models.UpdateBookingRequest{
		UserID:          userID,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CarBrand:        r.CarBrand,
		CarModel:        r.CarModel,
		CarLicensePlate: r.CarLicensePlate,
		Notes:           r.Notes,
	}
}
