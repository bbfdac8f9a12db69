package get_published_calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
)

// UseCase use case владельческого просмотра опубликованного ledger'а.
// В отличие от превью по конфигурации отдаёт фактическое состояние слотов,
// включая bookedBy занятых.
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

// Execute читает опубликованные дни за диапазон дат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetPublishedCalendar: validation failed: %v", err)
		return nil, err
	}

	loc, err := uc.locationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("GetPublishedCalendar: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("GetPublishedCalendar: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}
	if loc.OwnerID != req.UserID {
		uc.logger.Warn("GetPublishedCalendar: user %s is not the owner of location %d", req.UserID, req.LocationID)
		return nil, ErrAccessDenied
	}

	days, err := uc.ledgerRepo.GetRange(ctx, req.LocationID, req.StartDate, req.EndDate)
	if err != nil {
		uc.logger.Error("GetPublishedCalendar: failed to read ledger for location %d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: read ledger: %v", ErrInternal, err)
	}

	resp := &Response{LocationID: req.LocationID, Days: make([]DayDTO, 0, len(days))}
	for _, day := range days {
		dto := DayDTO{
			Date:    day.Date.Format(domain.DateFormat),
			Version: day.Version,
			Slots:   make([]SlotDTO, 0, len(day.Slots)),
		}
		for _, slot := range day.Slots {
			dto.Slots = append(dto.Slots, SlotDTO{
				Time:      string(slot.Time),
				Available: slot.Available,
				BookedBy:  slot.BookedBy,
			})
		}
		resp.Days = append(resp.Days, dto)
	}

	return resp, nil
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
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}
	return nil
}
