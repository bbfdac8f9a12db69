package publish_calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	ledgerRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slotledger"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

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

type fakeLedger struct {
	days          map[string]*domain.DaySlots
	conflictsLeft int // сколько первых записей завершить конфликтом версий
	updates       int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{days: make(map[string]*domain.DaySlots)}
}

func dayKey(locationID int64, date time.Time) string {
	return date.Format(domain.DateFormat)
}

func (f *fakeLedger) GetDay(ctx context.Context, locationID int64, date time.Time) (*domain.DaySlots, error) {
	day, ok := f.days[dayKey(locationID, date)]
	if !ok {
		return nil, ledgerRepo.ErrDayNotFound
	}
	slots := make([]domain.TimeSlot, len(day.Slots))
	copy(slots, day.Slots)
	return &domain.DaySlots{Date: day.Date, Slots: slots, Version: day.Version}, nil
}

func (f *fakeLedger) InsertDay(ctx context.Context, locationID int64, date time.Time, slots []domain.TimeSlot) error {
	key := dayKey(locationID, date)
	if _, ok := f.days[key]; ok {
		return ledgerRepo.ErrVersionConflict
	}
	f.days[key] = &domain.DaySlots{Date: date, Slots: slots, Version: 1}
	return nil
}

func (f *fakeLedger) UpdateSlots(ctx context.Context, locationID int64, date time.Time, slots []domain.TimeSlot, expectedVersion int64) error {
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return ledgerRepo.ErrVersionConflict
	}
	key := dayKey(locationID, date)
	day, ok := f.days[key]
	if !ok || day.Version != expectedVersion {
		return ledgerRepo.ErrVersionConflict
	}
	day.Slots = slots
	day.Version++
	f.updates++
	return nil
}

// weekConfig расписание пн-вс 09:00-11:00 с получасовыми слотами
func weekConfig() domain.TimeSlotsConfig {
	days := make([]domain.WorkingDay, 0, 7)
	for _, wd := range []string{
		domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday,
		domain.Friday, domain.Saturday, domain.Sunday,
	} {
		days = append(days, domain.WorkingDay{
			Weekday:   wd,
			StartTime: types.TimeString("09:00"),
			EndTime:   types.TimeString("11:00"),
			IsWorking: true,
		})
	}
	return domain.TimeSlotsConfig{IntervalMinutes: 30, WorkingDays: days}
}

func newUseCaseFixture(ledger *fakeLedger) *UseCase {
	locations := &fakeLocations{locations: map[int64]*domain.ServiceLocation{
		1: {ID: 1, OwnerID: "owner-1", Config: weekConfig()},
	}}
	return NewUseCase(locations, ledger, nopLogger{})
}

func monday() time.Time {
	return time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
}

func TestExecuteFirstPublication(t *testing.T) {
	ledger := newFakeLedger()
	uc := newUseCaseFixture(ledger)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     "owner-1",
		LocationID: 1,
		StartDate:  monday(),
		EndDate:    monday().AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 2)
	// 09:00, 09:30, 10:00, 10:30
	assert.Equal(t, 4, resp.Days[0].SlotCount)
	assert.Zero(t, resp.Days[0].Retained)

	stored := ledger.days[monday().Format(domain.DateFormat)]
	require.NotNil(t, stored)
	assert.Equal(t, int64(1), stored.Version)
	for _, slot := range stored.Slots {
		assert.True(t, slot.Available)
	}
}

func TestExecuteRepublicationPreservesBookedSlots(t *testing.T) {
	ledger := newFakeLedger()
	// Уже опубликованный день с одним занятым слотом внутри шаблона
	// и одним занятым вне нового шаблона (12:00)
	ledger.days[monday().Format(domain.DateFormat)] = &domain.DaySlots{
		Date: monday(),
		Slots: []domain.TimeSlot{
			{Time: types.TimeString("09:00"), Available: true},
			{Time: types.TimeString("09:30"), Available: false, BookedBy: ptr.Ptr(int64(41))},
			{Time: types.TimeString("12:00"), Available: false, BookedBy: ptr.Ptr(int64(42))},
		},
		Version: 3,
	}

	uc := newUseCaseFixture(ledger)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     "owner-1",
		LocationID: 1,
		StartDate:  monday(),
		EndDate:    monday(),
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 1)
	assert.Equal(t, 2, resp.Days[0].Retained)
	// 4 слота шаблона + возвращённый 12:00
	assert.Equal(t, 5, resp.Days[0].SlotCount)

	stored := ledger.days[monday().Format(domain.DateFormat)]
	assert.Equal(t, int64(4), stored.Version)

	byTime := make(map[types.TimeString]domain.TimeSlot)
	for _, slot := range stored.Slots {
		byTime[slot.Time] = slot
	}

	assert.True(t, byTime["09:00"].Available)
	require.NotNil(t, byTime["09:30"].BookedBy)
	assert.Equal(t, int64(41), *byTime["09:30"].BookedBy)
	require.NotNil(t, byTime["12:00"].BookedBy)
	assert.Equal(t, int64(42), *byTime["12:00"].BookedBy)

	// Слоты отсортированы по времени
	last := stored.Slots[len(stored.Slots)-1]
	assert.Equal(t, types.TimeString("12:00"), last.Time)
}

func TestExecuteRetriesOnVersionConflict(t *testing.T) {
	ledger := newFakeLedger()
	ledger.days[monday().Format(domain.DateFormat)] = &domain.DaySlots{
		Date:    monday(),
		Slots:   []domain.TimeSlot{{Time: types.TimeString("09:00"), Available: true}},
		Version: 1,
	}
	ledger.conflictsLeft = 2

	uc := newUseCaseFixture(ledger)

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     "owner-1",
		LocationID: 1,
		StartDate:  monday(),
		EndDate:    monday(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.updates)
}

func TestExecuteConcurrencyConflictAfterRetries(t *testing.T) {
	ledger := newFakeLedger()
	ledger.days[monday().Format(domain.DateFormat)] = &domain.DaySlots{
		Date:    monday(),
		Slots:   []domain.TimeSlot{{Time: types.TimeString("09:00"), Available: true}},
		Version: 1,
	}
	ledger.conflictsLeft = domain.ReserveMaxAttempts

	uc := newUseCaseFixture(ledger)

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     "owner-1",
		LocationID: 1,
		StartDate:  monday(),
		EndDate:    monday(),
	})
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
}

func TestExecuteAccessControl(t *testing.T) {
	uc := newUseCaseFixture(newFakeLedger())
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{
		UserID:     "stranger",
		LocationID: 1,
		StartDate:  monday(),
		EndDate:    monday(),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = uc.Execute(ctx, &Request{
		UserID:     "owner-1",
		LocationID: 99,
		StartDate:  monday(),
		EndDate:    monday(),
	})
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestExecuteInvalidDateRange(t *testing.T) {
	uc := newUseCaseFixture(newFakeLedger())

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     "owner-1",
		LocationID: 1,
		StartDate:  monday().AddDate(0, 0, 5),
		EndDate:    monday(),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
