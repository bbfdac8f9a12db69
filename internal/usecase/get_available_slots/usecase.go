package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	"github.com/m04kA/SMC-ScheduleService/internal/schedule"
)

// defaultPreviewDays длина диапазона по умолчанию
const defaultPreviewDays = 7

// UseCase use case для превью доступных слотов по конфигурации локации
type UseCase struct {
	locationRepo LocationRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(locationRepo LocationRepository, logger Logger) *UseCase {
	return &UseCase{
		locationRepo: locationRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute генерирует превью слотов. Результат считается из конфигурации
// и не читает ledger: превью отвечает "что можно забронировать",
// а не "что занято прямо сейчас".
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.LocationID <= 0 {
		return nil, fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	startDate, endDate := uc.resolveRange(req)

	loc, err := uc.locationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("GetAvailableSlots: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	days, err := schedule.Generate(loc.Config, startDate, endDate)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrConfig):
			uc.logger.Warn("GetAvailableSlots: invalid config for location %d: %v", req.LocationID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		case errors.Is(err, schedule.ErrInvalidDateRange):
			return nil, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
		}
		return nil, fmt.Errorf("%w: generate slots: %v", ErrInternal, err)
	}

	resp := &Response{LocationID: req.LocationID, Days: make([]DayDTO, 0, len(days))}
	for _, day := range days {
		dto := DayDTO{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: make([]SlotDTO, 0, len(day.Slots)),
		}
		for _, slot := range day.Slots {
			dto.Slots = append(dto.Slots, SlotDTO{
				Time:      string(slot.Time),
				Available: slot.Available,
			})
		}
		resp.Days = append(resp.Days, dto)
	}

	return resp, nil
}

// resolveRange подставляет неделю от сегодняшнего дня, если диапазон не задан
func (uc *UseCase) resolveRange(req *Request) (start, end time.Time) {
	now := uc.timeProvider.Now()
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.StartDate != nil {
		start = *req.StartDate
	}
	end = start.AddDate(0, 0, defaultPreviewDays-1)
	if req.EndDate != nil {
		end = *req.EndDate
	}
	return start, end
}
