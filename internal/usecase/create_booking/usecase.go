package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	catalogClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/notifyservice"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	"github.com/m04kA/SMC-ScheduleService/internal/service/reservation"
)

// UseCase use case для создания бронирования с резервированием слота
type UseCase struct {
	bookingRepo   BookingRepository
	locationRepo  LocationRepository
	coordinator   ReservationCoordinator
	catalogClient CatalogServiceClient
	notifier      Notifier
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	locationRepo LocationRepository,
	coordinator ReservationCoordinator,
	catalogClient CatalogServiceClient,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		locationRepo:  locationRepo,
		coordinator:   coordinator,
		catalogClient: catalogClient,
		notifier:      notifier,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования.
// Создание записи и резервирование слота выполняются в одной транзакции:
// если слот занят или резервирование не удалось, бронирование не сохраняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%s, location=%d, service=%d, date=%s, time=%s",
		req.UserID, req.LocationID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не должна быть в прошлом
	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем существование локации
	if _, err := uc.locationRepo.GetByID(ctx, req.LocationID); err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("CreateBooking: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("CreateBooking: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	// 4. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.LocationID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	booking := &domain.Booking{
		UserID:      req.UserID,
		LocationID:  req.LocationID,
		ServiceID:   req.ServiceID,
		BookingDate: req.Date,
		StartTime:   req.StartTime,
		Status:      domain.StatusPending,
		// Денормализация данных услуги и клиента
		ServiceName:     service.Name,
		ServicePrice:    getServicePrice(service),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CarBrand:        req.CarBrand,
		CarModel:        req.CarModel,
		CarLicensePlate: req.CarLicensePlate,
		Notes:           req.Notes,
	}

	var created *domain.Booking

	// 5. Создаем бронирование и резервируем слот атомарно
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = uc.bookingRepo.Create(txCtx, booking)
		if txErr != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", txErr)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, txErr)
		}

		if txErr = uc.coordinator.Reserve(txCtx, req.LocationID, req.Date, req.StartTime, created.ID); txErr != nil {
			// Откат транзакции удаляет созданную запись
			return txErr
		}

		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrSlotUnavailable):
			uc.logger.Warn("CreateBooking: slot %s on %s is not available",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return nil, ErrSlotNotAvailable
		case errors.Is(err, reservation.ErrConcurrencyConflict):
			uc.logger.Warn("CreateBooking: reservation retries exhausted for slot %s on %s",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return nil, ErrConcurrencyConflict
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", created.ID)

	uc.notifyAsync(created.ID)

	return toResponse(created), nil
}

// notifyAsync отправляет уведомление о создании, не блокируя ответ
func (uc *UseCase) notifyAsync(bookingID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := uc.notifier.Notify(ctx, bookingID, notifyservice.EventBookingCreated); err != nil {
			uc.logger.Error("CreateBooking: failed to notify about booking id=%d: %v", bookingID, err)
		}
	}()
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		UserID:          b.UserID,
		LocationID:      b.LocationID,
		ServiceID:       b.ServiceID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CarBrand:        b.CarBrand,
		CarModel:        b.CarModel,
		CarLicensePlate: b.CarLicensePlate,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// getServicePrice извлекает цену из услуги, nil трактуется как 0
func getServicePrice(service *catalogClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}
