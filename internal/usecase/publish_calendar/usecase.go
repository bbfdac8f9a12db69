package publish_calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	ledgerRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slotledger"
	"github.com/m04kA/SMC-ScheduleService/internal/schedule"
)

// UseCase use case для публикации календаря слотов по конфигурации локации
type UseCase struct {
	locationRepo LocationRepository
	ledgerRepo   LedgerRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(locationRepo LocationRepository, ledgerRepo LedgerRepository, logger Logger) *UseCase {
	return &UseCase{
		locationRepo: locationRepo,
		ledgerRepo:   ledgerRepo,
		logger:       logger,
	}
}

// Execute публикует слоты на диапазон дат. Каждый день пишется отдельной
// compare-and-swap операцией: при перепубликации занятые слоты сохраняются,
// даже если их время отсутствует в новом шаблоне.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PublishCalendar: user=%s, location=%d, range=%s..%s",
		req.UserID, req.LocationID,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PublishCalendar: validation failed: %v", err)
		return nil, err
	}

	// 1. Локация и проверка владельца
	loc, err := uc.locationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("PublishCalendar: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("PublishCalendar: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}
	if loc.OwnerID != req.UserID {
		uc.logger.Warn("PublishCalendar: user %s is not the owner of location %d", req.UserID, req.LocationID)
		return nil, ErrAccessDenied
	}

	// 2. Генерация шаблона по конфигурации
	days, err := schedule.Generate(loc.Config, req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrConfig):
			uc.logger.Warn("PublishCalendar: invalid config for location %d: %v", req.LocationID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		case errors.Is(err, schedule.ErrInvalidDateRange):
			return nil, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
		}
		return nil, fmt.Errorf("%w: generate slots: %v", ErrInternal, err)
	}

	// 3. Публикация по дням
	resp := &Response{LocationID: req.LocationID, Days: make([]PublishedDay, 0, len(days))}
	for i := range days {
		published, err := uc.publishDay(ctx, req.LocationID, &days[i])
		if err != nil {
			return nil, err
		}
		resp.Days = append(resp.Days, published)
	}

	uc.logger.Info("PublishCalendar: published %d days for location %d", len(resp.Days), req.LocationID)

	return resp, nil
}

// publishDay записывает один день с ограниченным числом повторов при конфликте версий
func (uc *UseCase) publishDay(ctx context.Context, locationID int64, day *domain.DaySlots) (PublishedDay, error) {
	date := day.Date

	for attempt := 1; attempt <= domain.ReserveMaxAttempts; attempt++ {
		existing, err := uc.ledgerRepo.GetDay(ctx, locationID, date)
		if err != nil && !errors.Is(err, ledgerRepo.ErrDayNotFound) {
			uc.logger.Error("PublishCalendar: failed to read day %s: %v", date.Format(domain.DateFormat), err)
			return PublishedDay{}, fmt.Errorf("%w: read day: %v", ErrInternal, err)
		}

		// Первая публикация дня
		if existing == nil {
			err = uc.ledgerRepo.InsertDay(ctx, locationID, date, day.Slots)
			if err == nil {
				return PublishedDay{
					Date:      date.Format(domain.DateFormat),
					SlotCount: len(day.Slots),
				}, nil
			}
			if errors.Is(err, ledgerRepo.ErrVersionConflict) {
				// Параллельная публикация успела вставить день, перечитываем
				continue
			}
			uc.logger.Error("PublishCalendar: failed to insert day %s: %v", date.Format(domain.DateFormat), err)
			return PublishedDay{}, fmt.Errorf("%w: insert day: %v", ErrInternal, err)
		}

		// Перепубликация: шаблон + занятые слоты из текущей записи
		merged, retained := mergeBookedSlots(day.Slots, existing.Slots)

		err = uc.ledgerRepo.UpdateSlots(ctx, locationID, date, merged, existing.Version)
		if err == nil {
			return PublishedDay{
				Date:      date.Format(domain.DateFormat),
				SlotCount: len(merged),
				Retained:  retained,
			}, nil
		}
		if errors.Is(err, ledgerRepo.ErrVersionConflict) {
			continue
		}
		uc.logger.Error("PublishCalendar: failed to update day %s: %v", date.Format(domain.DateFormat), err)
		return PublishedDay{}, fmt.Errorf("%w: update day: %v", ErrInternal, err)
	}

	uc.logger.Error("PublishCalendar: retries exhausted for day %s", date.Format(domain.DateFormat))
	return PublishedDay{}, ErrConcurrencyConflict
}

// mergeBookedSlots накладывает занятые слоты существующей записи на новый шаблон.
// Занятый слот, времени которого нет в шаблоне, добавляется обратно:
// перепубликация никогда не теряет активные бронирования.
func mergeBookedSlots(template, existing []domain.TimeSlot) ([]domain.TimeSlot, int) {
	merged := make([]domain.TimeSlot, len(template))
	copy(merged, template)

	retained := 0
	for _, slot := range existing {
		if slot.BookedBy == nil {
			continue
		}
		retained++

		found := false
		for i := range merged {
			if merged[i].Time.Equal(slot.Time) {
				merged[i].Available = false
				merged[i].BookedBy = slot.BookedBy
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, slot)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Time.IsBefore(merged[j].Time)
	})

	return merged, retained
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	return nil
}
