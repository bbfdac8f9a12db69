package models

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// WorkingDayDTO конфигурация рабочего дня недели
type WorkingDayDTO struct {
	Weekday   string `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsWorking bool   `json:"isWorking"`
}

// BreakWindowDTO перерыв, исключаемый из генерации слотов
type BreakWindowDTO struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Label     string `json:"label,omitempty"`
}

// TimeSlotsConfigDTO недельная конфигурация слотов
type TimeSlotsConfigDTO struct {
	IntervalMinutes int             `json:"intervalMinutes"`
	WorkingDays     []WorkingDayDTO `json:"workingDays"`
	Breaks          []BreakWindowDTO `json:"breaks,omitempty"`
}

// CreateLocationRequest запрос на создание локации
type CreateLocationRequest struct {
	OwnerID string              `json:"-"`
	Name    string              `json:"name"`
	Address string              `json:"address"`
	Config  *TimeSlotsConfigDTO `json:"timeSlotsConfig,omitempty"`
}

// UpdateConfigRequest запрос на обновление конфигурации расписания
type UpdateConfigRequest struct {
	UserID string             `json:"-"`
	Config TimeSlotsConfigDTO `json:"timeSlotsConfig"`
}

// LocationResponse локация с конфигурацией и статусом
type LocationResponse struct {
	ID               int64              `json:"id"`
	OwnerID          string             `json:"ownerId"`
	Name             string             `json:"name"`
	Address          string             `json:"address"`
	TimeSlotsConfig  TimeSlotsConfigDTO `json:"timeSlotsConfig"`
	IsOpen           bool               `json:"isOpen"`
	CurrentWaitTime  int                `json:"currentWaitTime"`
	CurrentQueue     int                `json:"currentQueue"`
	EstimatedWaitTime int               `json:"estimatedWaitTime"`
	LastStatusUpdate time.Time          `json:"lastStatusUpdate"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// ToDomainConfig конвертирует DTO в доменную конфигурацию
func (c TimeSlotsConfigDTO) ToDomainConfig() domain.TimeSlotsConfig {
	cfg := domain.TimeSlotsConfig{
		IntervalMinutes: c.IntervalMinutes,
		WorkingDays:     make([]domain.WorkingDay, 0, len(c.WorkingDays)),
		Breaks:          make([]domain.BreakWindow, 0, len(c.Breaks)),
	}
	for _, wd := range c.WorkingDays {
		cfg.WorkingDays = append(cfg.WorkingDays, domain.WorkingDay{
			Weekday:   wd.Weekday,
			StartTime: types.TimeString(wd.StartTime),
			EndTime:   types.TimeString(wd.EndTime),
			IsWorking: wd.IsWorking,
		})
	}
	for _, b := range c.Breaks {
		cfg.Breaks = append(cfg.Breaks, domain.BreakWindow{
			StartTime: types.TimeString(b.StartTime),
			EndTime:   types.TimeString(b.EndTime),
			Label:     b.Label,
		})
	}
	return cfg
}

// FromDomainConfig конвертирует доменную конфигурацию в DTO
func FromDomainConfig(cfg domain.TimeSlotsConfig) TimeSlotsConfigDTO {
	dto := TimeSlotsConfigDTO{
		IntervalMinutes: cfg.IntervalMinutes,
		WorkingDays:     make([]WorkingDayDTO, 0, len(cfg.WorkingDays)),
		Breaks:          make([]BreakWindowDTO, 0, len(cfg.Breaks)),
	}
	for _, wd := range cfg.WorkingDays {
		dto.WorkingDays = append(dto.WorkingDays, WorkingDayDTO{
			Weekday:   wd.Weekday,
			StartTime: string(wd.StartTime),
			EndTime:   string(wd.EndTime),
			IsWorking: wd.IsWorking,
		})
	}
	for _, b := range cfg.Breaks {
		dto.Breaks = append(dto.Breaks, BreakWindowDTO{
			StartTime: string(b.StartTime),
			EndTime:   string(b.EndTime),
			Label:     b.Label,
		})
	}
	return dto
}

// FromDomainLocation конвертирует доменную локацию в DTO
func FromDomainLocation(loc *domain.ServiceLocation) *LocationResponse {
	return &LocationResponse{
		ID:                loc.ID,
		OwnerID:           loc.OwnerID,
		Name:              loc.Name,
		Address:           loc.Address,
		TimeSlotsConfig:   FromDomainConfig(loc.Config),
		IsOpen:            loc.Status.IsOpen,
		CurrentWaitTime:   loc.Status.CurrentWaitTime,
		CurrentQueue:      loc.Status.CurrentQueue,
		EstimatedWaitTime: loc.Status.EstimatedWaitTime,
		LastStatusUpdate:  loc.Status.LastStatusUpdate,
		CreatedAt:         loc.CreatedAt,
		UpdatedAt:         loc.UpdatedAt,
	}
}
