package models

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// UpdateStatusRequest частичное обновление статуса локации.
// Nil-поля не изменяются.
type UpdateStatusRequest struct {
	IsOpen          *bool `json:"isOpen,omitempty"`
	CurrentWaitTime *int  `json:"currentWaitTime,omitempty"`
	CurrentQueue    *int  `json:"currentQueue,omitempty"`
}

// IsEmpty проверяет, что ни одно поле не задано
func (r UpdateStatusRequest) IsEmpty() bool {
	return r.IsOpen == nil && r.CurrentWaitTime == nil && r.CurrentQueue == nil
}

// UpdateWaitTimeRequest обновление времени ожидания и очереди
type UpdateWaitTimeRequest struct {
	CurrentWaitTime int `json:"currentWaitTime"`
	CurrentQueue    int `json:"currentQueue"`
}

// StatusResponse текущий статус локации
type StatusResponse struct {
	IsOpen            bool      `json:"isOpen"`
	CurrentWaitTime   int       `json:"currentWaitTime"`
	CurrentQueue      int       `json:"currentQueue"`
	EstimatedWaitTime int       `json:"estimatedWaitTime"`
	LastStatusUpdate  time.Time `json:"lastStatusUpdate"`
}

// FromDomainStatus конвертирует доменную модель в DTO
func FromDomainStatus(s *domain.RealTimeStatus) *StatusResponse {
	return &StatusResponse{
		IsOpen:            s.IsOpen,
		CurrentWaitTime:   s.CurrentWaitTime,
		CurrentQueue:      s.CurrentQueue,
		EstimatedWaitTime: s.EstimatedWaitTime,
		LastStatusUpdate:  s.LastStatusUpdate,
	}
}
