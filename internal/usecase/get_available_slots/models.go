package get_available_slots

import "time"

// Request модель запроса на превью слотов.
// Если диапазон не задан, используется текущая неделя от сегодняшнего дня.
type Request struct {
	LocationID int64
	StartDate  *time.Time
	EndDate    *time.Time
}

// SlotDTO один слот шаблона
type SlotDTO struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DayDTO слоты одного дня
type DayDTO struct {
	Date  string    `json:"date"`
	Slots []SlotDTO `json:"slots"`
}

// Response превью календаря: что могло бы быть забронировано по конфигурации,
// без учёта уже существующих бронирований
type Response struct {
	LocationID int64    `json:"locationId"`
	Days       []DayDTO `json:"days"`
}
