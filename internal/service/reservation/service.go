// Package reservation атомарное резервирование и освобождение слотов.
// Единственная точка мутации ledger'а: никто другой не меняет available/bookedBy.
//
// Гонка закрывается оптимистичной блокировкой на записи DaySlots: читаем список
// слотов дня вместе с версией, проверяем доступность, пишем список целиком назад
// с условием "версия не изменилась". Проигравший конкурентную запись получает
// конфликт версий и повторяет цикл заново - из двух одновременных reserve на один
// и тот же слот выигрывает ровно один.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	ledgerRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slotledger"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Service координатор резервирования слотов
type Service struct {
	ledger  LedgerRepository
	metrics ConflictMetrics // может быть nil, если метрики выключены
	logger  Logger
}

// NewService создает новый координатор резервирования
func NewService(ledger LedgerRepository, metrics ConflictMetrics, logger Logger) *Service {
	return &Service{
		ledger:  ledger,
		metrics: metrics,
		logger:  logger,
	}
}

// Reserve атомарно занимает слот (date, startTime) локации для бронирования
// Успех только если слот существует, свободен и конкурентная запись не опередила
func (s *Service) Reserve(ctx context.Context, locationID int64, date time.Time, startTime types.TimeString, bookingID int64) error {
	for attempt := 1; attempt <= domain.ReserveMaxAttempts; attempt++ {
		day, err := s.ledger.GetDay(ctx, locationID, date)
		if err != nil {
			if errors.Is(err, ledgerRepo.ErrDayNotFound) {
				s.logger.Warn("Reserve: no ledger entry for location=%d date=%s",
					locationID, date.Format(domain.DateFormat))
				return ErrSlotUnavailable
			}
			return fmt.Errorf("%w: Reserve - read day: %v", ErrInternal, err)
		}

		idx := day.FindSlot(startTime)
		if idx < 0 {
			s.logger.Warn("Reserve: slot %s not in ledger for location=%d date=%s",
				startTime, locationID, date.Format(domain.DateFormat))
			return ErrSlotUnavailable
		}

		slot := day.Slots[idx]
		if !slot.Available {
			// Повторный reserve того же бронирования - идемпотентный успех
			if slot.BookedBy != nil && *slot.BookedBy == bookingID {
				return nil
			}
			s.logger.Warn("Reserve: slot %s already held for location=%d date=%s",
				startTime, locationID, date.Format(domain.DateFormat))
			return ErrSlotUnavailable
		}

		slots := day.CloneSlots()
		slots[idx].Available = false
		slots[idx].BookedBy = &bookingID

		err = s.ledger.UpdateSlots(ctx, locationID, day.Date, slots, day.Version)
		if err == nil {
			s.logger.Info("Reserve: slot %s reserved for booking=%d (location=%d date=%s, attempt=%d)",
				startTime, bookingID, locationID, date.Format(domain.DateFormat), attempt)
			return nil
		}

		if !errors.Is(err, ledgerRepo.ErrVersionConflict) {
			return fmt.Errorf("%w: Reserve - write day: %v", ErrInternal, err)
		}

		s.logger.Warn("Reserve: version conflict for location=%d date=%s slot=%s, attempt %d/%d",
			locationID, date.Format(domain.DateFormat), startTime, attempt, domain.ReserveMaxAttempts)
		if s.metrics != nil {
			s.metrics.IncReservationConflict("retried")
		}

		if err := s.backoff(ctx, attempt); err != nil {
			return err
		}
	}

	if s.metrics != nil {
		s.metrics.IncReservationConflict("exhausted")
	}
	s.logger.Error("Reserve: retries exhausted for location=%d date=%s slot=%s",
		locationID, date.Format(domain.DateFormat), startTime)
	return ErrConcurrencyConflict
}

// Release освобождает слот, независимо от того, кто его держал
// Идемпотентен: освобождение свободного или отсутствующего слота - no-op успех
func (s *Service) Release(ctx context.Context, locationID int64, date time.Time, startTime types.TimeString) error {
	for attempt := 1; attempt <= domain.ReserveMaxAttempts; attempt++ {
		day, err := s.ledger.GetDay(ctx, locationID, date)
		if err != nil {
			if errors.Is(err, ledgerRepo.ErrDayNotFound) {
				return nil
			}
			return fmt.Errorf("%w: Release - read day: %v", ErrInternal, err)
		}

		idx := day.FindSlot(startTime)
		if idx < 0 {
			return nil
		}

		if day.Slots[idx].Available {
			return nil
		}

		slots := day.CloneSlots()
		slots[idx].Available = true
		slots[idx].BookedBy = nil

		err = s.ledger.UpdateSlots(ctx, locationID, day.Date, slots, day.Version)
		if err == nil {
			s.logger.Info("Release: slot %s released (location=%d date=%s, attempt=%d)",
				startTime, locationID, date.Format(domain.DateFormat), attempt)
			return nil
		}

		if !errors.Is(err, ledgerRepo.ErrVersionConflict) {
			return fmt.Errorf("%w: Release - write day: %v", ErrInternal, err)
		}

		s.logger.Warn("Release: version conflict for location=%d date=%s slot=%s, attempt %d/%d",
			locationID, date.Format(domain.DateFormat), startTime, attempt, domain.ReserveMaxAttempts)
		if s.metrics != nil {
			s.metrics.IncReservationConflict("retried")
		}

		if err := s.backoff(ctx, attempt); err != nil {
			return err
		}
	}

	if s.metrics != nil {
		s.metrics.IncReservationConflict("exhausted")
	}
	return ErrConcurrencyConflict
}

// backoff линейно растущая пауза между попытками, прерываемая контекстом
func (s *Service) backoff(ctx context.Context, attempt int) error {
	timer := time.NewTimer(domain.ReserveRetryBackoff * time.Duration(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrInternal, ctx.Err())
	case <-timer.C:
		return nil
	}
}
