package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	ledgerRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slotledger"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// fakeLedger повторяет семантику optimistic locking реального репозитория
type fakeLedger struct {
	mu   sync.Mutex
	days map[string]*domain.DaySlots

	failWrites bool // каждый UpdateSlots отвечает конфликтом версий
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{days: make(map[string]*domain.DaySlots)}
}

func dayKey(locationID int64, date time.Time) string {
	return fmt.Sprintf("%d#%s", locationID, date.Format(domain.DateFormat))
}

func (f *fakeLedger) seed(locationID int64, date time.Time, slots []domain.TimeSlot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days[dayKey(locationID, date)] = &domain.DaySlots{Date: date, Slots: slots, Version: 1}
}

func (f *fakeLedger) GetDay(ctx context.Context, locationID int64, date time.Time) (*domain.DaySlots, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	day, ok := f.days[dayKey(locationID, date)]
	if !ok {
		return nil, ledgerRepo.ErrDayNotFound
	}

	return &domain.DaySlots{Date: day.Date, Slots: day.CloneSlots(), Version: day.Version}, nil
}

func (f *fakeLedger) UpdateSlots(ctx context.Context, locationID int64, date time.Time, slots []domain.TimeSlot, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	day, ok := f.days[dayKey(locationID, date)]
	if !ok || f.failWrites || day.Version != expectedVersion {
		return ledgerRepo.ErrVersionConflict
	}

	day.Slots = slots
	day.Version++
	return nil
}

func seedDay(f *fakeLedger, locationID int64, date time.Time) {
	f.seed(locationID, date, []domain.TimeSlot{
		{Time: "09:00", Available: true},
		{Time: "09:30", Available: true},
		{Time: "10:00", Available: false, BookedBy: ptr.Ptr(int64(77))},
	})
}

func TestReserveSuccess(t *testing.T) {
	ledger := newFakeLedger()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	seedDay(ledger, 1, date)

	svc := NewService(ledger, nil, nopLogger{})

	err := svc.Reserve(context.Background(), 1, date, "09:00", 101)
	require.NoError(t, err)

	day, err := ledger.GetDay(context.Background(), 1, date)
	require.NoError(t, err)

	idx := day.FindSlot("09:00")
	require.GreaterOrEqual(t, idx, 0)
	assert.False(t, day.Slots[idx].Available)
	require.NotNil(t, day.Slots[idx].BookedBy)
	assert.Equal(t, int64(101), *day.Slots[idx].BookedBy)
}

func TestReserveIsIdempotentForSameBooking(t *testing.T) {
	ledger := newFakeLedger()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	seedDay(ledger, 1, date)

	svc := NewService(ledger, nil, nopLogger{})

	require.NoError(t, svc.Reserve(context.Background(), 1, date, "09:00", 101))
	require.NoError(t, svc.Reserve(context.Background(), 1, date, "09:00", 101))
}

func TestReserveUnavailableCases(t *testing.T) {
	ledger := newFakeLedger()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	seedDay(ledger, 1, date)

	svc := NewService(ledger, nil, nopLogger{})
	ctx := context.Background()

	// Слот уже занят другим бронированием
	err := svc.Reserve(ctx, 1, date, "10:00", 101)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Слота нет в ledger'е
	err = svc.Reserve(ctx, 1, date, "11:00", 101)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Дня нет в ledger'е
	err = svc.Reserve(ctx, 1, date.AddDate(0, 0, 1), "09:00", 101)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReserveAtMostOneWinner(t *testing.T) {
	ledger := newFakeLedger()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	seedDay(ledger, 1, date)

	svc := NewService(ledger, nil, nopLogger{})

	const workers = 16
	results := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(bookingID int64) {
			defer wg.Done()
			results <- svc.Reserve(context.Background(), 1, date, "09:30", bookingID)
		}(int64(200 + i))
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		// Проигравшие получают либо занятый слот, либо исчерпание повторов
		if !errors.Is(err, ErrSlotUnavailable) && !errors.Is(err, ErrConcurrencyConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent reserve must win")

	day, err := ledger.GetDay(context.Background(), 1, date)
	require.NoError(t, err)

	idx := day.FindSlot("09:30")
	require.GreaterOrEqual(t, idx, 0)
	assert.False(t, day.Slots[idx].Available)
	assert.NotNil(t, day.Slots[idx].BookedBy)
}

func TestReserveRetriesExhausted(t *testing.T) {
	ledger := newFakeLedger()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	seedDay(ledger, 1, date)
	ledger.failWrites = true

	svc := NewService(ledger, nil, nopLogger{})

	err := svc.Reserve(context.Background(), 1, date, "09:00", 101)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
}

func TestReleaseIdempotence(t *testing.T) {
	ledger := newFakeLedger()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	seedDay(ledger, 1, date)

	svc := NewService(ledger, nil, nopLogger{})
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, 1, date, "09:00", 101))

	// Первый release освобождает слот
	require.NoError(t, svc.Release(ctx, 1, date, "09:00"))

	day, err := ledger.GetDay(ctx, 1, date)
	require.NoError(t, err)
	idx := day.FindSlot("09:00")
	assert.True(t, day.Slots[idx].Available)
	assert.Nil(t, day.Slots[idx].BookedBy)
	versionAfterRelease := day.Version

	// Повторный release уже свободного слота - no-op успех, состояние не меняется
	require.NoError(t, svc.Release(ctx, 1, date, "09:00"))

	day, err = ledger.GetDay(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, versionAfterRelease, day.Version)

	// Release несуществующего слота и дня - тоже успех
	require.NoError(t, svc.Release(ctx, 1, date, "11:00"))
	require.NoError(t, svc.Release(ctx, 1, date.AddDate(0, 0, 1), "09:00"))
}
