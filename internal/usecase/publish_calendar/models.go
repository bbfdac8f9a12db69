package publish_calendar

import "time"

// Request модель запроса на публикацию календаря слотов
type Request struct {
	UserID     string    // Идентификатор владельца (из заголовка аутентификации)
	LocationID int64     // ID локации
	StartDate  time.Time // Первая дата диапазона (включительно)
	EndDate    time.Time // Последняя дата диапазона (включительно)
}

// PublishedDay итог публикации одного дня
type PublishedDay struct {
	Date      string `json:"date"`
	SlotCount int    `json:"slotCount"`
	Retained  int    `json:"retainedBooked"` // занятые слоты, сохранённые при перепубликации
}

// Response модель ответа с итогами публикации
type Response struct {
	LocationID int64          `json:"locationId"`
	Days       []PublishedDay `json:"days"`
}
