package get_published_calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeLocations struct{}

func (fakeLocations) GetByID(ctx context.Context, id int64) (*domain.ServiceLocation, error) {
	if id != 1 {
		return nil, locationRepo.ErrLocationNotFound
	}
	return &domain.ServiceLocation{ID: 1, OwnerID: "owner-1"}, nil
}

type fakeLedger struct {
	days []*domain.DaySlots
}

func (f *fakeLedger) GetRange(ctx context.Context, locationID int64, from, to time.Time) ([]*domain.DaySlots, error) {
	var result []*domain.DaySlots
	for _, day := range f.days {
		if day.Date.Before(from) || day.Date.After(to) {
			continue
		}
		result = append(result, day)
	}
	return result, nil
}

func monday() time.Time {
	return time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
}

func TestExecuteReturnsPublishedDays(t *testing.T) {
	ledger := &fakeLedger{days: []*domain.DaySlots{
		{
			Date: monday(),
			Slots: []domain.TimeSlot{
				{Time: types.TimeString("09:00"), Available: true},
				{Time: types.TimeString("09:30"), Available: false, BookedBy: ptr.Ptr(int64(7))},
			},
			Version: 4,
		},
		{
			Date:    monday().AddDate(0, 0, 5),
			Slots:   []domain.TimeSlot{{Time: types.TimeString("10:00"), Available: true}},
			Version: 1,
		},
	}}
	uc := NewUseCase(fakeLocations{}, ledger, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     "owner-1",
		LocationID: 1,
		StartDate:  monday(),
		EndDate:    monday().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	// Второй день вне диапазона
	require.Len(t, resp.Days, 1)
	day := resp.Days[0]
	assert.Equal(t, "2025-10-13", day.Date)
	assert.Equal(t, int64(4), day.Version)
	require.Len(t, day.Slots, 2)
	assert.True(t, day.Slots[0].Available)
	require.NotNil(t, day.Slots[1].BookedBy)
	assert.Equal(t, int64(7), *day.Slots[1].BookedBy)
}

func TestExecuteAccessControl(t *testing.T) {
	uc := NewUseCase(fakeLocations{}, &fakeLedger{}, nopLogger{})
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

func TestExecuteValidation(t *testing.T) {
	uc := NewUseCase(fakeLocations{}, &fakeLedger{}, nopLogger{})
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{LocationID: 1, StartDate: monday(), EndDate: monday()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{
		UserID:     "owner-1",
		LocationID: 1,
		StartDate:  monday().AddDate(0, 0, 3),
		EndDate:    monday(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
