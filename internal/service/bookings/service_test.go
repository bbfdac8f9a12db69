package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/booking"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	"github.com/m04kA/SMC-ScheduleService/internal/service/bookings/models"
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
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bs ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bs {
		copied := *b
		repo.bookings[b.ID] = &copied
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByUserID(ctx context.Context, userID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByLocationAndDate(ctx context.Context, locationID int64, date time.Time) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.LocationID != locationID || !b.BookingDate.Equal(date) {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) UpdateFields(ctx context.Context, id int64, fields bookingRepo.UpdateFields) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if fields.CustomerName != nil {
		b.CustomerName = *fields.CustomerName
	}
	if fields.CustomerPhone != nil {
		b.CustomerPhone = *fields.CustomerPhone
	}
	if fields.Notes != nil {
		b.Notes = fields.Notes
	}
	return nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	return nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

type fakeLocations struct {
	locations map[int64]*domain.ServiceLocation
}

func (f *fakeLocations) GetByID(ctx context.Context, id int64) (*domain.ServiceLocation, error) {
	loc, ok := f.locations[id]
	if !ok {
		return nil, locationRepo.ErrLocationNotFound
	}
	return loc, nil
}

type releaseCall struct {
	locationID int64
	date       time.Time
	startTime  types.TimeString
}

type fakeCoordinator struct {
	releases []releaseCall
}

func (f *fakeCoordinator) Release(ctx context.Context, locationID int64, date time.Time, startTime types.TimeString) error {
	f.releases = append(f.releases, releaseCall{locationID, date, startTime})
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc         *Service
	bookings    *fakeBookingRepo
	coordinator *fakeCoordinator
	clock       *fixedTime
}

func newFixture(t *testing.T, bs ...*domain.Booking) *fixture {
	t.Helper()

	repo := newFakeBookingRepo(bs...)
	coordinator := &fakeCoordinator{}
	locations := &fakeLocations{locations: map[int64]*domain.ServiceLocation{
		10: {ID: 10, OwnerID: "owner-1"},
	}}

	svc := NewService(repo, locations, coordinator, nil, fakeTxManager{}, nopLogger{})
	clock := &fixedTime{now: time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC)}
	svc.timeProvider = clock

	return &fixture{svc: svc, bookings: repo, coordinator: coordinator, clock: clock}
}

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          1,
		UserID:      "user-1",
		LocationID:  10,
		ServiceID:   5,
		BookingDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("14:00"),
		Status:      status,
	}
}

func TestCancelReleasesSlot(t *testing.T) {
	fx := newFixture(t, testBooking(domain.StatusConfirmed))

	err := fx.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             "user-1",
		CancellationReason: "plans changed",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, fx.bookings.bookings[1].Status)
	require.Len(t, fx.coordinator.releases, 1)
	call := fx.coordinator.releases[0]
	assert.Equal(t, int64(10), call.locationID)
	assert.Equal(t, types.TimeString("14:00"), call.startTime)
}

func TestCancelOutsideWindow(t *testing.T) {
	fx := newFixture(t, testBooking(domain.StatusPending))
	// До начала (14:00) меньше двух часов
	fx.clock.now = time.Date(2025, 10, 15, 12, 30, 0, 0, time.UTC)

	err := fx.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, ErrCancellationNotEligible)

	assert.Equal(t, domain.StatusPending, fx.bookings.bookings[1].Status)
	assert.Empty(t, fx.coordinator.releases)
}

func TestCancelByLocationOwnerBypassesWindow(t *testing.T) {
	fx := newFixture(t, testBooking(domain.StatusConfirmed))
	fx.clock.now = time.Date(2025, 10, 15, 13, 55, 0, 0, time.UTC)

	err := fx.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             "owner-1",
		CancellationReason: "master is sick",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, fx.bookings.bookings[1].Status)
	assert.Len(t, fx.coordinator.releases, 1)
}

func TestCancelByStrangerDenied(t *testing.T) {
	fx := newFixture(t, testBooking(domain.StatusPending))

	err := fx.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: "stranger"})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, fx.coordinator.releases)
}

func TestCancelInvalidTransition(t *testing.T) {
	fx := newFixture(t, testBooking(domain.StatusCompleted))

	err := fx.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Equal(t, domain.StatusCompleted, fx.bookings.bookings[1].Status)
	assert.Empty(t, fx.coordinator.releases)
}

func TestTransitionGraph(t *testing.T) {
	fx := newFixture(t, testBooking(domain.StatusPending))
	ctx := context.Background()

	// pending -> in_progress запрещён
	err := fx.svc.Start(ctx, 1, "owner-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusPending, fx.bookings.bookings[1].Status)

	require.NoError(t, fx.svc.Confirm(ctx, 1, "owner-1"))
	assert.Equal(t, domain.StatusConfirmed, fx.bookings.bookings[1].Status)

	require.NoError(t, fx.svc.Start(ctx, 1, "owner-1"))
	assert.Equal(t, domain.StatusInProgress, fx.bookings.bookings[1].Status)

	require.NoError(t, fx.svc.Complete(ctx, 1, "owner-1"))
	assert.Equal(t, domain.StatusCompleted, fx.bookings.bookings[1].Status)

	// Терминальный статус не допускает переходов
	err = fx.svc.Confirm(ctx, 1, "owner-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionRequiresLocationOwner(t *testing.T) {
	fx := newFixture(t, testBooking(domain.StatusPending))
	ctx := context.Background()

	// Клиент не управляет жизненным циклом своего бронирования
	err := fx.svc.Confirm(ctx, 1, "user-1")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, fx.bookings.bookings[1].Status)

	err = fx.svc.Start(ctx, 1, "stranger")
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = fx.svc.Complete(ctx, 1, "stranger")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, fx.bookings.bookings[1].Status)
}

func TestDeleteReleasesSlot(t *testing.T) {
	fx := newFixture(t, testBooking(domain.StatusPending))

	err := fx.svc.Delete(context.Background(), 1, "user-1")
	require.NoError(t, err)

	assert.NotContains(t, fx.bookings.bookings, int64(1))
	assert.Len(t, fx.coordinator.releases, 1)
}

func TestDeleteNotFound(t *testing.T) {
	fx := newFixture(t)

	err := fx.svc.Delete(context.Background(), 42, "user-1")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCanCancel(t *testing.T) {
	fx := newFixture(t, testBooking(domain.StatusConfirmed))
	ctx := context.Background()

	resp, err := fx.svc.CanCancel(ctx, 1, "user-1")
	require.NoError(t, err)
	assert.True(t, resp.CanCancel)

	// Ровно два часа до начала - уже поздно
	fx.clock.now = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	resp, err = fx.svc.CanCancel(ctx, 1, "user-1")
	require.NoError(t, err)
	assert.False(t, resp.CanCancel)
	assert.NotEmpty(t, resp.Reason)

	fx.bookings.bookings[1].Status = domain.StatusCompleted
	resp, err = fx.svc.CanCancel(ctx, 1, "user-1")
	require.NoError(t, err)
	assert.False(t, resp.CanCancel)
	assert.Contains(t, resp.Reason, "completed")
}

func TestUpdateBooking(t *testing.T) {
	fx := newFixture(t, testBooking(domain.StatusPending))
	ctx := context.Background()

	name := "Пётр"
	resp, err := fx.svc.Update(ctx, 1, &models.UpdateBookingRequest{
		UserID:       "user-1",
		CustomerName: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "Пётр", resp.CustomerName)

	// Только владелец бронирования может редактировать
	_, err = fx.svc.Update(ctx, 1, &models.UpdateBookingRequest{UserID: "owner-1", CustomerName: &name})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Пустой запрос отклоняется
	_, err = fx.svc.Update(ctx, 1, &models.UpdateBookingRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	fx.bookings.bookings[1].Status = domain.StatusInProgress
	_, err = fx.svc.Update(ctx, 1, &models.UpdateBookingRequest{UserID: "user-1", CustomerName: &name})
	assert.ErrorIs(t, err, ErrCannotUpdate)
}

func TestGetLocationBookings(t *testing.T) {
	first := testBooking(domain.StatusPending)
	second := testBooking(domain.StatusConfirmed)
	second.ID = 2
	second.UserID = "user-2"

	fx := newFixture(t, first, second)
	ctx := context.Background()
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	resp, err := fx.svc.GetLocationBookings(ctx, 10, date, "owner-1")
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	// Другая дата - пусто
	resp, err = fx.svc.GetLocationBookings(ctx, 10, date.AddDate(0, 0, 1), "owner-1")
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)

	// Просмотр доступен только владельцу локации
	_, err = fx.svc.GetLocationBookings(ctx, 10, date, "user-1")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetUserBookingsFiltersByStatus(t *testing.T) {
	first := testBooking(domain.StatusPending)
	second := testBooking(domain.StatusCompleted)
	second.ID = 2

	fx := newFixture(t, first, second)

	status := string(domain.StatusPending)
	resp, err := fx.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: "user-1",
		Status: &status,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, string(domain.StatusPending), resp.Bookings[0].Status)

	bad := "nonsense"
	_, err = fx.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: "user-1",
		Status: &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
