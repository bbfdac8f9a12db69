package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/booking"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/service/bookings/models"
)

// notifyTimeout бюджет на fire-and-forget отправку уведомления
const notifyTimeout = 5 * time.Second

// Service сервис жизненного цикла бронирований
// Статусные переходы и освобождение слота выполняются одной транзакцией:
// запись ledger'а никогда не ссылается на отменённое или удалённое бронирование
type Service struct {
	bookingRepo  BookingRepository
	locationRepo LocationRepository
	coordinator  ReservationCoordinator
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	locationRepo LocationRepository,
	coordinator ReservationCoordinator,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		locationRepo: locationRepo,
		coordinator:  coordinator,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование или бронирования своей локации
func (s *Service) GetByID(ctx context.Context, id int64, userID string) (*models.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetLocationBookings возвращает бронирования локации на дату
// Менеджерский просмотр расписания, доступен только владельцу локации
func (s *Service) GetLocationBookings(ctx context.Context, locationID int64, date time.Time, userID string) (*models.BookingListResponse, error) {
	if err := s.checkLocationOwner(ctx, locationID, userID); err != nil {
		s.logger.Warn("GetLocationBookings: access denied for user=%s to location=%d", userID, locationID)
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByLocationAndDate(ctx, locationID, date)
	if err != nil {
		s.logger.Error("GetLocationBookings: repository error for location=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: GetLocationBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Confirm переводит бронирование pending -> confirmed
// Доступно только владельцу локации
func (s *Service) Confirm(ctx context.Context, id int64, userID string) error {
	return s.transition(ctx, id, userID, domain.StatusConfirmed, notifyservice.EventBookingConfirmed)
}

// Start переводит бронирование confirmed -> in_progress
// Доступно только владельцу локации
func (s *Service) Start(ctx context.Context, id int64, userID string) error {
	return s.transition(ctx, id, userID, domain.StatusInProgress, notifyservice.EventBookingStarted)
}

// Complete переводит бронирование in_progress -> completed
// Доступно только владельцу локации
func (s *Service) Complete(ctx context.Context, id int64, userID string) error {
	return s.transition(ctx, id, userID, domain.StatusCompleted, notifyservice.EventBookingCompleted)
}

// CanCancel read-only проверка политики отмены для клиента:
// статус pending/confirmed и до начала бронирования больше двух часов
func (s *Service) CanCancel(ctx context.Context, id int64, userID string) (*models.CancelEligibilityResponse, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(ctx, booking, userID); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	if booking.CanCancelAt(now) {
		return &models.CancelEligibilityResponse{CanCancel: true}, nil
	}

	reason := "cancellation window has passed"
	if !booking.CanBeCancelled() {
		reason = fmt.Sprintf("booking in status %q cannot be cancelled", booking.Status)
	}
	return &models.CancelEligibilityResponse{CanCancel: false, Reason: reason}, nil
}

// Cancel отменяет бронирование и освобождает его слот одной транзакцией
// Владелец бронирования подчиняется окну отмены (2 часа до начала);
// владелец локации может отменить в любой момент до завершения
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%s", id, req.UserID)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return err
	}

	if !booking.CanTransitionTo(domain.StatusCancelled) {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled from status=%s", id, booking.Status)
		return ErrInvalidTransition
	}

	// Путь клиента проверяет окно отмены; владелец локации его обходит
	if booking.UserID == req.UserID {
		if !booking.CanCancelAt(s.timeProvider.Now()) {
			s.logger.Warn("Cancel: booking id=%d outside cancellation window", id)
			return ErrCancellationNotEligible
		}
	} else {
		if err := s.checkLocationOwner(ctx, booking.LocationID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%s to cancel booking id=%d", req.UserID, id)
			return err
		}
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Cancel(txCtx, id, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
		if err := s.coordinator.Release(txCtx, booking.LocationID, booking.BookingDate, booking.StartTime); err != nil {
			return fmt.Errorf("%w: Cancel - release slot: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", id)
	s.notifyAsync(booking.ID, notifyservice.EventBookingCancelled)
	return nil
}

// Update частично обновляет редактируемые поля бронирования
// Доступно владельцу бронирования в статусах pending/confirmed
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != req.UserID {
		s.logger.Warn("Update: access denied for user=%s to booking id=%d", req.UserID, id)
		return nil, ErrAccessDenied
	}

	if !booking.CanBeUpdated() {
		s.logger.Warn("Update: booking id=%d in status=%s cannot be updated", id, booking.Status)
		return nil, ErrCannotUpdate
	}

	fields := bookingRepo.UpdateFields{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CarBrand:        req.CarBrand,
		CarModel:        req.CarModel,
		CarLicensePlate: req.CarLicensePlate,
		Notes:           req.Notes,
	}
	if fields.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	if err := s.bookingRepo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Update: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	updated, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(updated), nil
}

// Delete удаляет бронирование, предварительно освободив его слот
// Освобождение и удаление - одна логическая операция (транзакция)
func (s *Service) Delete(ctx context.Context, id int64, userID string) error {
	s.logger.Info("Delete: deleting booking id=%d by user=%s", id, userID)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.checkAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("Delete: access denied for user=%s to booking id=%d", userID, id)
		return err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.coordinator.Release(txCtx, booking.LocationID, booking.BookingDate, booking.StartTime); err != nil {
			return fmt.Errorf("%w: Delete - release slot: %v", ErrInternal, err)
		}
		if err := s.bookingRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deleted booking id=%d", id)
	return nil
}

// Вспомогательные методы

// transition выполняет статусный переход по графу жизненного цикла
// Переходы доступны только владельцу локации; недопустимый переход не меняет состояние
func (s *Service) transition(ctx context.Context, id int64, userID string, next domain.BookingStatus, event string) error {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.checkLocationOwner(ctx, booking.LocationID, userID); err != nil {
		s.logger.Warn("transition: access denied for user=%s to booking id=%d", userID, id)
		return err
	}

	if !booking.CanTransitionTo(next) {
		s.logger.Warn("transition: booking id=%d cannot move %s -> %s", id, booking.Status, next)
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("transition: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: transition - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("transition: booking id=%d moved %s -> %s", id, booking.Status, next)
	s.notifyAsync(id, event)
	return nil
}

func (s *Service) loadBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("loadBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("loadBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: loadBooking - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkAccess разрешает доступ владельцу бронирования или владельцу локации
func (s *Service) checkAccess(ctx context.Context, booking *domain.Booking, userID string) error {
	if booking.UserID == userID {
		return nil
	}
	return s.checkLocationOwner(ctx, booking.LocationID, userID)
}

func (s *Service) checkLocationOwner(ctx context.Context, locationID int64, userID string) error {
	loc, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: checkLocationOwner - repository error: %v", ErrInternal, err)
	}
	if loc.OwnerID != userID {
		return ErrAccessDenied
	}
	return nil
}

// notifyAsync отправляет уведомление fire-and-forget
// Ошибка доставки логируется и не влияет на результат операции
func (s *Service) notifyAsync(bookingID int64, event string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, bookingID, event); err != nil {
			s.logger.Error("notifyAsync: failed to send %s for booking id=%d: %v", event, bookingID, err)
		}
	}()
}
