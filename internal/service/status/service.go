package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	"github.com/m04kA/SMC-ScheduleService/internal/service/status/models"
)

// Service сервис для управления статусом локации в реальном времени
type Service struct {
	repo         LocationRepository
	timeProvider TimeProvider
	logger       Logger
}

func NewService(repo LocationRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetStatus возвращает текущий статус локации
func (s *Service) GetStatus(ctx context.Context, locationID int64) (*models.StatusResponse, error) {
	current, err := s.loadStatus(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainStatus(current), nil
}

// UpdateStatus частично обновляет статус локации.
// Доступно только владельцу локации. Незаданные поля сохраняют текущие
// значения, estimatedWaitTime пересчитывается, lastStatusUpdate
// проставляется текущим временем.
func (s *Service) UpdateStatus(ctx context.Context, locationID int64, userID string, req models.UpdateStatusRequest) (*models.StatusResponse, error) {
	if err := s.checkOwner(ctx, locationID, userID); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: UpdateStatus - no fields to update", ErrInvalidInput)
	}
	if req.CurrentWaitTime != nil && *req.CurrentWaitTime < 0 {
		return nil, fmt.Errorf("%w: UpdateStatus - currentWaitTime must be non-negative", ErrInvalidInput)
	}
	if req.CurrentQueue != nil && *req.CurrentQueue < 0 {
		return nil, fmt.Errorf("%w: UpdateStatus - currentQueue must be non-negative", ErrInvalidInput)
	}

	current, err := s.loadStatus(ctx, locationID)
	if err != nil {
		return nil, err
	}

	if req.IsOpen != nil {
		current.IsOpen = *req.IsOpen
	}
	if req.CurrentWaitTime != nil {
		current.CurrentWaitTime = *req.CurrentWaitTime
	}
	if req.CurrentQueue != nil {
		current.CurrentQueue = *req.CurrentQueue
	}

	return s.save(ctx, locationID, current)
}

// ToggleOpen переключает флаг открытия локации
// Доступно только владельцу локации
func (s *Service) ToggleOpen(ctx context.Context, locationID int64, userID string) (*models.StatusResponse, error) {
	if err := s.checkOwner(ctx, locationID, userID); err != nil {
		return nil, err
	}

	current, err := s.loadStatus(ctx, locationID)
	if err != nil {
		return nil, err
	}

	current.IsOpen = !current.IsOpen

	s.logger.Info("status.ToggleOpen: location %d is_open=%t", locationID, current.IsOpen)

	return s.save(ctx, locationID, current)
}

// UpdateWaitTime обновляет время ожидания и длину очереди
// Доступно только владельцу локации
func (s *Service) UpdateWaitTime(ctx context.Context, locationID int64, userID string, req models.UpdateWaitTimeRequest) (*models.StatusResponse, error) {
	if err := s.checkOwner(ctx, locationID, userID); err != nil {
		return nil, err
	}
	if req.CurrentWaitTime < 0 || req.CurrentQueue < 0 {
		return nil, fmt.Errorf("%w: UpdateWaitTime - wait time and queue must be non-negative", ErrInvalidInput)
	}

	current, err := s.loadStatus(ctx, locationID)
	if err != nil {
		return nil, err
	}

	current.CurrentWaitTime = req.CurrentWaitTime
	current.CurrentQueue = req.CurrentQueue

	return s.save(ctx, locationID, current)
}

// checkOwner разрешает изменение статуса только владельцу локации
func (s *Service) checkOwner(ctx context.Context, locationID int64, userID string) error {
	loc, err := s.repo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			return fmt.Errorf("%w: location %d", ErrLocationNotFound, locationID)
		}
		s.logger.Error("status.checkOwner: failed to get location %d: %v", locationID, err)
		return fmt.Errorf("%w: checkOwner: %v", ErrInternal, err)
	}
	if loc.OwnerID != userID {
		s.logger.Warn("status.checkOwner: user %s is not the owner of location %d", userID, locationID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) loadStatus(ctx context.Context, locationID int64) (*domain.RealTimeStatus, error) {
	current, err := s.repo.GetStatus(ctx, locationID)
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			return nil, fmt.Errorf("%w: location %d", ErrLocationNotFound, locationID)
		}
		s.logger.Error("status.loadStatus: failed to get status for location %d: %v", locationID, err)
		return nil, fmt.Errorf("%w: loadStatus: %v", ErrInternal, err)
	}
	return current, nil
}

// save пересчитывает оценку ожидания, штампует время обновления и пишет статус
func (s *Service) save(ctx context.Context, locationID int64, status *domain.RealTimeStatus) (*models.StatusResponse, error) {
	status.RecalculateEstimate()
	status.LastStatusUpdate = s.timeProvider.Now()

	if err := s.repo.UpdateStatus(ctx, locationID, *status); err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			return nil, fmt.Errorf("%w: location %d", ErrLocationNotFound, locationID)
		}
		s.logger.Error("status.save: failed to update status for location %d: %v", locationID, err)
		return nil, fmt.Errorf("%w: save: %v", ErrInternal, err)
	}

	return models.FromDomainStatus(status), nil
}
