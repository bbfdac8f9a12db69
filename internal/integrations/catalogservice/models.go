package catalogservice

// Service модель услуги из каталога маркетплейса
type Service struct {
	ID         int64    `json:"id"`
	LocationID int64    `json:"location_id"`
	Name       string   `json:"name"`
	Price      *float64 `json:"price,omitempty"`
	Duration   int      `json:"duration_minutes"`
	IsActive   bool     `json:"is_active"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
