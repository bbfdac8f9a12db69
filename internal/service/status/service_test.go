package status

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	"github.com/m04kA/SMC-ScheduleService/internal/service/status/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type fakeLocationRepo struct {
	statuses map[int64]*domain.RealTimeStatus
	ownerID  string
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{statuses: make(map[int64]*domain.RealTimeStatus), ownerID: "owner-1"}
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceLocation, error) {
	if _, ok := f.statuses[id]; !ok {
		return nil, location.ErrLocationNotFound
	}
	return &domain.ServiceLocation{ID: id, OwnerID: f.ownerID}, nil
}

func (f *fakeLocationRepo) GetStatus(ctx context.Context, id int64) (*domain.RealTimeStatus, error) {
	s, ok := f.statuses[id]
	if !ok {
		return nil, location.ErrLocationNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeLocationRepo) UpdateStatus(ctx context.Context, id int64, status domain.RealTimeStatus) error {
	if _, ok := f.statuses[id]; !ok {
		return location.ErrLocationNotFound
	}
	f.statuses[id] = &status
	return nil
}

func TestUpdateStatusRecalculatesEstimate(t *testing.T) {
	repo := newFakeLocationRepo()
	repo.statuses[1] = &domain.RealTimeStatus{IsOpen: true}
	clock := &fixedTime{now: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)}

	svc := NewService(repo, clock, nopLogger{})

	resp, err := svc.UpdateStatus(context.Background(), 1, "owner-1", models.UpdateStatusRequest{
		CurrentWaitTime: ptr.Ptr(10),
		CurrentQueue:    ptr.Ptr(3),
	})
	require.NoError(t, err)

	// estimatedWaitTime = currentWaitTime + currentQueue * 15
	assert.Equal(t, 10+3*15, resp.EstimatedWaitTime)
	assert.Equal(t, clock.now, resp.LastStatusUpdate)
	assert.True(t, resp.IsOpen, "unset fields keep current values")
}

func TestUpdateStatusPartialMerge(t *testing.T) {
	repo := newFakeLocationRepo()
	repo.statuses[1] = &domain.RealTimeStatus{
		IsOpen:          true,
		CurrentWaitTime: 20,
		CurrentQueue:    2,
	}
	clock := &fixedTime{now: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)}

	svc := NewService(repo, clock, nopLogger{})

	// Обновляем только очередь, остальное сохраняется
	resp, err := svc.UpdateStatus(context.Background(), 1, "owner-1", models.UpdateStatusRequest{
		CurrentQueue: ptr.Ptr(4),
	})
	require.NoError(t, err)

	assert.True(t, resp.IsOpen)
	assert.Equal(t, 20, resp.CurrentWaitTime)
	assert.Equal(t, 4, resp.CurrentQueue)
	assert.Equal(t, 20+4*15, resp.EstimatedWaitTime)
}

func TestUpdateStatusValidation(t *testing.T) {
	repo := newFakeLocationRepo()
	repo.statuses[1] = &domain.RealTimeStatus{}
	svc := NewService(repo, &fixedTime{now: time.Now()}, nopLogger{})
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, 1, "owner-1", models.UpdateStatusRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateStatus(ctx, 1, "owner-1", models.UpdateStatusRequest{CurrentWaitTime: ptr.Ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateStatus(ctx, 1, "owner-1", models.UpdateStatusRequest{CurrentQueue: ptr.Ptr(-5)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateStatus(ctx, 99, "owner-1", models.UpdateStatusRequest{CurrentQueue: ptr.Ptr(1)})
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestStatusMutationsRequireOwner(t *testing.T) {
	repo := newFakeLocationRepo()
	repo.statuses[1] = &domain.RealTimeStatus{IsOpen: true, CurrentWaitTime: 10}
	svc := NewService(repo, &fixedTime{now: time.Now()}, nopLogger{})
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, 1, "stranger", models.UpdateStatusRequest{CurrentQueue: ptr.Ptr(1)})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.ToggleOpen(ctx, 1, "stranger")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.UpdateWaitTime(ctx, 1, "stranger", models.UpdateWaitTimeRequest{CurrentWaitTime: 5})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Состояние не изменилось
	current, err := repo.GetStatus(ctx, 1)
	require.NoError(t, err)
	assert.True(t, current.IsOpen)
	assert.Equal(t, 10, current.CurrentWaitTime)

	// Чтение статуса остаётся публичным
	_, err = svc.GetStatus(ctx, 1)
	assert.NoError(t, err)
}

func TestToggleOpen(t *testing.T) {
	repo := newFakeLocationRepo()
	repo.statuses[1] = &domain.RealTimeStatus{IsOpen: false, CurrentWaitTime: 5, CurrentQueue: 1}
	clock := &fixedTime{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}

	svc := NewService(repo, clock, nopLogger{})
	ctx := context.Background()

	resp, err := svc.ToggleOpen(ctx, 1, "owner-1")
	require.NoError(t, err)
	assert.True(t, resp.IsOpen)
	assert.Equal(t, 5+1*15, resp.EstimatedWaitTime)

	resp, err = svc.ToggleOpen(ctx, 1, "owner-1")
	require.NoError(t, err)
	assert.False(t, resp.IsOpen)
}

func TestUpdateWaitTime(t *testing.T) {
	repo := newFakeLocationRepo()
	repo.statuses[1] = &domain.RealTimeStatus{IsOpen: true}
	clock := &fixedTime{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}

	svc := NewService(repo, clock, nopLogger{})

	resp, err := svc.UpdateWaitTime(context.Background(), 1, "owner-1", models.UpdateWaitTimeRequest{
		CurrentWaitTime: 30,
		CurrentQueue:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.CurrentWaitTime)
	assert.Equal(t, 2, resp.CurrentQueue)
	assert.Equal(t, 30+2*15, resp.EstimatedWaitTime)

	_, err = svc.UpdateWaitTime(context.Background(), 1, "owner-1", models.UpdateWaitTimeRequest{
		CurrentWaitTime: -1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
