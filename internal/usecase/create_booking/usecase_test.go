package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-ScheduleService/internal/service/reservation"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type fakeBookingRepo struct {
	mu      sync.Mutex
	nextID  int64
	created map[int64]*domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1, created: make(map[int64]*domain.Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *booking
	copied.ID = f.nextID
	f.nextID++
	f.created[copied.ID] = &copied
	return &copied, nil
}

func (f *fakeBookingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeLocations struct{}

func (fakeLocations) GetByID(ctx context.Context, id int64) (*domain.ServiceLocation, error) {
	if id != 1 {
		return nil, locationRepo.ErrLocationNotFound
	}
	return &domain.ServiceLocation{ID: 1, OwnerID: "owner-1"}, nil
}

type fakeCoordinator struct {
	reserveErr error
	reserved   []int64
}

func (f *fakeCoordinator) Reserve(ctx context.Context, locationID int64, date time.Time, startTime types.TimeString, bookingID int64) error {
	if f.reserveErr != nil {
		return f.reserveErr
	}
	f.reserved = append(f.reserved, bookingID)
	return nil
}

type fakeCatalog struct {
	service *catalogservice.Service
	err     error
}

func (f *fakeCatalog) GetService(ctx context.Context, locationID, serviceID int64) (*catalogservice.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) Notify(ctx context.Context, bookingID int64, event string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

// rollbackTxManager имитирует откат: записи, созданные внутри проваленной
// транзакции, удаляются из репозитория
type rollbackTxManager struct {
	repo *fakeBookingRepo
}

func (m *rollbackTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.repo.mu.Lock()
	before := make(map[int64]bool, len(m.repo.created))
	for id := range m.repo.created {
		before[id] = true
	}
	m.repo.mu.Unlock()

	err := fn(ctx)
	if err == nil {
		return nil
	}

	m.repo.mu.Lock()
	for id := range m.repo.created {
		if !before[id] {
			delete(m.repo.created, id)
		}
	}
	m.repo.mu.Unlock()
	return err
}

type fixture struct {
	uc          *UseCase
	bookings    *fakeBookingRepo
	coordinator *fakeCoordinator
	catalog     *fakeCatalog
	notifier    *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bookings := newFakeBookingRepo()
	coordinator := &fakeCoordinator{}
	catalog := &fakeCatalog{service: &catalogservice.Service{
		ID:         5,
		LocationID: 1,
		Name:       "Замена масла",
		Price:      ptr.Ptr(2500.0),
		IsActive:   true,
	}}
	notifier := &fakeNotifier{}

	uc := NewUseCase(bookings, fakeLocations{}, coordinator, catalog, notifier,
		&rollbackTxManager{repo: bookings}, nopLogger{})
	uc.timeProvider = &fixedTime{now: time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)}

	return &fixture{uc: uc, bookings: bookings, coordinator: coordinator, catalog: catalog, notifier: notifier}
}

func validRequest() *Request {
	return &Request{
		UserID:        "user-1",
		LocationID:    1,
		ServiceID:     5,
		Date:          time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:     types.TimeString("10:00"),
		CustomerName:  "Иван",
		CustomerPhone: "+79991234567",
	}
}

func TestExecuteSuccess(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Замена масла", resp.ServiceName)
	assert.Equal(t, 2500.0, resp.ServicePrice)
	assert.Equal(t, 1, fx.bookings.count())
	require.Len(t, fx.coordinator.reserved, 1)
	assert.Equal(t, resp.ID, fx.coordinator.reserved[0])
}

func TestExecuteSlotUnavailableRollsBack(t *testing.T) {
	fx := newFixture(t)
	fx.coordinator.reserveErr = reservation.ErrSlotUnavailable

	_, err := fx.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// Проваленное резервирование не оставляет бронирования
	assert.Zero(t, fx.bookings.count())
}

func TestExecuteConcurrencyConflict(t *testing.T) {
	fx := newFixture(t)
	fx.coordinator.reserveErr = reservation.ErrConcurrencyConflict

	_, err := fx.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Zero(t, fx.bookings.count())
}

func TestExecuteServiceChecks(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.catalog.service.IsActive = false
	_, err := fx.uc.Execute(ctx, validRequest())
	assert.ErrorIs(t, err, ErrServiceInactive)

	fx.catalog.service.IsActive = true
	fx.catalog.err = catalogservice.ErrServiceNotFound
	_, err = fx.uc.Execute(ctx, validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecuteLocationNotFound(t *testing.T) {
	fx := newFixture(t)

	req := validRequest()
	req.LocationID = 99
	_, err := fx.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestExecutePastDateRejected(t *testing.T) {
	fx := newFixture(t)

	req := validRequest()
	req.Date = time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC)
	_, err := fx.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)

	// Бронирование на сегодня допустимо
	req.Date = time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	_, err = fx.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecuteValidation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	req := validRequest()
	req.UserID = ""
	_, err := fx.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.StartTime = types.TimeString("25:99")
	_, err = fx.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.CustomerName = "  "
	_, err = fx.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.ServiceID = 0
	_, err = fx.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecuteNilPriceMeansFree(t *testing.T) {
	fx := newFixture(t)
	fx.catalog.service.Price = nil

	resp, err := fx.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Zero(t, resp.ServicePrice)
}
