package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID        string           // Идентификатор клиента (opaque, из заголовка аутентификации)
	LocationID    int64            // ID локации
	ServiceID     int64            // ID услуги
	Date          time.Time        // Дата бронирования (без времени)
	StartTime     types.TimeString // Время начала слота (например, "10:00")
	CustomerName  string           // Имя клиента
	CustomerPhone string           // Телефон клиента

	CarBrand        *string // Марка автомобиля (опционально)
	CarModel        *string // Модель автомобиля (опционально)
	CarLicensePlate *string // Госномер (опционально)
	Notes           *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64            `json:"id"`
	UserID      string           `json:"userId"`
	LocationID  int64            `json:"locationId"`
	ServiceID   int64            `json:"serviceId"`
	BookingDate time.Time        `json:"bookingDate"`
	StartTime   types.TimeString `json:"startTime"`
	Status      string           `json:"status"`

	// Денормализованные данные
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	CarBrand        *string `json:"carBrand,omitempty"`
	CarModel        *string `json:"carModel,omitempty"`
	CarLicensePlate *string `json:"carLicensePlate,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
