package locations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	"github.com/m04kA/SMC-ScheduleService/internal/schedule"
	"github.com/m04kA/SMC-ScheduleService/internal/service/locations/models"
)

// Service сервис для управления локациями и их конфигурацией расписания
type Service struct {
	repo      LocationRepository
	txManager TransactionManager
	logger    Logger
}

func NewService(repo LocationRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// Create создаёт новую локацию. Конфигурация расписания опциональна,
// при её отсутствии используются только дефолтный интервал слотов.
func (s *Service) Create(ctx context.Context, req models.CreateLocationRequest) (*models.LocationResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: Create - name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, fmt.Errorf("%w: Create - owner id is required", ErrInvalidInput)
	}

	cfg := domain.TimeSlotsConfig{IntervalMinutes: domain.DefaultIntervalMinutes}
	if req.Config != nil {
		cfg = req.Config.ToDomainConfig()
		if cfg.IntervalMinutes == 0 {
			cfg.IntervalMinutes = domain.DefaultIntervalMinutes
		}
		if err := schedule.ValidateConfig(cfg); err != nil {
			return nil, fmt.Errorf("%w: Create: %v", ErrInvalidConfig, err)
		}
	}

	loc := &domain.ServiceLocation{
		OwnerID: req.OwnerID,
		Name:    req.Name,
		Address: req.Address,
		Config:  cfg,
	}

	var created *domain.ServiceLocation
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var txErr error
		created, txErr = s.repo.Create(ctx, loc)
		if txErr != nil {
			return txErr
		}
		if len(cfg.WorkingDays) > 0 || len(cfg.Breaks) > 0 {
			return s.repo.UpdateConfig(ctx, created.ID, cfg)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("locations.Create: failed to create location for owner %s: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: Create: %v", ErrInternal, err)
	}

	created.Config = cfg

	s.logger.Info("locations.Create: created location %d (owner %s)", created.ID, created.OwnerID)

	return models.FromDomainLocation(created), nil
}

// GetByID возвращает локацию с конфигурацией и статусом
func (s *Service) GetByID(ctx context.Context, id int64) (*models.LocationResponse, error) {
	loc, err := s.loadLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainLocation(loc), nil
}

// UpdateConfig заменяет конфигурацию расписания локации.
// Конфигурация валидируется целиком до записи, операция атомарна.
func (s *Service) UpdateConfig(ctx context.Context, locationID int64, req models.UpdateConfigRequest) (*models.LocationResponse, error) {
	loc, err := s.loadLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc.OwnerID != req.UserID {
		return nil, fmt.Errorf("%w: UpdateConfig - user %s is not the owner of location %d", ErrAccessDenied, req.UserID, locationID)
	}

	cfg := req.Config.ToDomainConfig()
	if cfg.IntervalMinutes == 0 {
		cfg.IntervalMinutes = loc.Config.IntervalMinutes
	}
	if err := schedule.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: UpdateConfig: %v", ErrInvalidConfig, err)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.repo.UpdateConfig(ctx, locationID, cfg)
	})
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			return nil, fmt.Errorf("%w: location %d", ErrLocationNotFound, locationID)
		}
		s.logger.Error("locations.UpdateConfig: failed to update config for location %d: %v", locationID, err)
		return nil, fmt.Errorf("%w: UpdateConfig: %v", ErrInternal, err)
	}

	loc.Config = cfg

	s.logger.Info("locations.UpdateConfig: updated config for location %d", locationID)

	return models.FromDomainLocation(loc), nil
}

func (s *Service) loadLocation(ctx context.Context, id int64) (*domain.ServiceLocation, error) {
	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			return nil, fmt.Errorf("%w: location %d", ErrLocationNotFound, id)
		}
		s.logger.Error("locations.loadLocation: failed to get location %d: %v", id, err)
		return nil, fmt.Errorf("%w: loadLocation: %v", ErrInternal, err)
	}
	return loc, nil
}
