package get_published_calendar

import "time"

// Request модель запроса владельческого просмотра ledger'а
type Request struct {
	UserID     string    // Идентификатор владельца (из заголовка аутентификации)
	LocationID int64     // ID локации
	StartDate  time.Time // Первая дата диапазона (включительно)
	EndDate    time.Time // Последняя дата диапазона (включительно)
}

// SlotDTO опубликованный слот вместе с занявшим его бронированием
type SlotDTO struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	BookedBy  *int64 `json:"bookedBy,omitempty"`
}

// DayDTO опубликованный день ledger'а
type DayDTO struct {
	Date    string    `json:"date"`
	Version int64     `json:"version"`
	Slots   []SlotDTO `json:"slots"`
}

// Response модель ответа с опубликованными днями
type Response struct {
	LocationID int64    `json:"locationId"`
	Days       []DayDTO `json:"days"`
}
