package domain

import "time"

// RealTimeStatus текущее операционное состояние локации
// Отображается клиентам, перезаписывается целиком (last-write-wins)
type RealTimeStatus struct {
	IsOpen            bool
	CurrentWaitTime   int // минуты
	CurrentQueue      int // машин в очереди
	EstimatedWaitTime int // минуты, всегда производное значение
	LastStatusUpdate  time.Time
}

// RecalculateEstimate пересчитывает производную оценку ожидания
// Инвариант: estimatedWaitTime = currentWaitTime + currentQueue * QueueSlotMinutes
func (s *RealTimeStatus) RecalculateEstimate() {
	s.EstimatedWaitTime = s.CurrentWaitTime + s.CurrentQueue*QueueSlotMinutes
}

// ServiceLocation represents a service point (car wash / auto service)
// Локация владеет ровно одной конфигурацией слотов и одним статусом
type ServiceLocation struct {
	ID      int64
	OwnerID string // Идентификатор владельца из сервиса аутентификации (opaque)
	Name    string
	Address string
	Config  TimeSlotsConfig
	Status  RealTimeStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
