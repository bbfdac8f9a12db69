// Package location хранение локаций: строка service_locations несёт интервал слотов
// и real-time статус, недельная конфигурация лежит в working_days и break_windows.
package location

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с локациями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория локаций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает локацию с пустой конфигурацией и закрытым статусом
func (r *Repository) Create(ctx context.Context, loc *domain.ServiceLocation) (*domain.ServiceLocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if loc.Config.IntervalMinutes == 0 {
		loc.Config.IntervalMinutes = domain.DefaultIntervalMinutes
	}

	query, args, err := psqlbuilder.Insert("service_locations").
		Columns("owner_id", "name", "address", "interval_minutes").
		Values(loc.OwnerID, loc.Name, loc.Address, loc.Config.IntervalMinutes).
		Suffix("RETURNING id, is_open, current_wait_time, current_queue, estimated_wait_time, last_status_update, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt, lastStatusUpdate sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&loc.ID,
		&loc.Status.IsOpen,
		&loc.Status.CurrentWaitTime,
		&loc.Status.CurrentQueue,
		&loc.Status.EstimatedWaitTime,
		&lastStatusUpdate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	loc.Status.LastStatusUpdate = lastStatusUpdate.Time
	loc.CreatedAt = createdAt.Time
	loc.UpdatedAt = updatedAt.Time

	return loc, nil
}

// GetByID получает локацию вместе с конфигурацией рабочих часов
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ServiceLocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"name",
		"address",
		"interval_minutes",
		"is_open",
		"current_wait_time",
		"current_queue",
		"estimated_wait_time",
		"last_status_update",
		"created_at",
		"updated_at",
	).
		From("service_locations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var loc domain.ServiceLocation
	var createdAt, updatedAt, lastStatusUpdate sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&loc.ID,
		&loc.OwnerID,
		&loc.Name,
		&loc.Address,
		&loc.Config.IntervalMinutes,
		&loc.Status.IsOpen,
		&loc.Status.CurrentWaitTime,
		&loc.Status.CurrentQueue,
		&loc.Status.EstimatedWaitTime,
		&lastStatusUpdate,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan location: %v", ErrScanRow, err)
	}

	loc.Status.LastStatusUpdate = lastStatusUpdate.Time
	loc.CreatedAt = createdAt.Time
	loc.UpdatedAt = updatedAt.Time

	if loc.Config.WorkingDays, err = r.getWorkingDays(ctx, executor, id); err != nil {
		return nil, err
	}
	if loc.Config.Breaks, err = r.getBreakWindows(ctx, executor, id); err != nil {
		return nil, err
	}

	return &loc, nil
}

// UpdateConfig заменяет конфигурацию рабочих часов локации целиком
// Должен вызываться внутри транзакции (txmanager), чтобы не видеть полуобновлённый набор
func (r *Repository) UpdateConfig(ctx context.Context, locationID int64, cfg domain.TimeSlotsConfig) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_locations").
		Set("interval_minutes", cfg.IntervalMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": locationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateConfig - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateConfig - execute update: %v", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateConfig - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrLocationNotFound
	}

	// Полная замена рабочих дней и перерывов
	for _, table := range []string{"working_days", "break_windows"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"location_id": locationID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateConfig - build delete query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpdateConfig - clear %s: %v", ErrExecQuery, table, err)
		}
	}

	for _, day := range cfg.WorkingDays {
		query, args, err := psqlbuilder.Insert("working_days").
			Columns("location_id", "weekday", "open_time", "close_time", "is_working").
			Values(locationID, day.Weekday, day.StartTime, day.EndTime, day.IsWorking).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateConfig - build working day insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpdateConfig - insert working day: %v", ErrExecQuery, err)
		}
	}

	for _, brk := range cfg.Breaks {
		query, args, err := psqlbuilder.Insert("break_windows").
			Columns("location_id", "start_time", "end_time", "label").
			Values(locationID, brk.StartTime, brk.EndTime, brk.Label).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateConfig - build break insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpdateConfig - insert break: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// GetStatus читает real-time статус локации
func (r *Repository) GetStatus(ctx context.Context, id int64) (*domain.RealTimeStatus, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"is_open",
		"current_wait_time",
		"current_queue",
		"estimated_wait_time",
		"last_status_update",
	).
		From("service_locations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStatus - build select query: %v", ErrBuildQuery, err)
	}

	var status domain.RealTimeStatus
	var lastStatusUpdate sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&status.IsOpen,
		&status.CurrentWaitTime,
		&status.CurrentQueue,
		&status.EstimatedWaitTime,
		&lastStatusUpdate,
	)
	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStatus - scan status: %v", ErrScanRow, err)
	}

	status.LastStatusUpdate = lastStatusUpdate.Time
	return &status, nil
}

// UpdateStatus перезаписывает real-time статус локации (last-write-wins)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.RealTimeStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_locations").
		Set("is_open", status.IsOpen).
		Set("current_wait_time", status.CurrentWaitTime).
		Set("current_queue", status.CurrentQueue).
		Set("estimated_wait_time", status.EstimatedWaitTime).
		Set("last_status_update", status.LastStatusUpdate).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrLocationNotFound
	}

	return nil
}

func (r *Repository) getWorkingDays(ctx context.Context, executor DBExecutor, locationID int64) ([]domain.WorkingDay, error) {
	query, args, err := psqlbuilder.Select("weekday", "open_time", "close_time", "is_working").
		From("working_days").
		Where(squirrel.Eq{"location_id": locationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getWorkingDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getWorkingDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]domain.WorkingDay, 0)
	for rows.Next() {
		var day domain.WorkingDay
		if err := rows.Scan(&day.Weekday, &day.StartTime, &day.EndTime, &day.IsWorking); err != nil {
			return nil, fmt.Errorf("%w: getWorkingDays - scan row: %v", ErrScanRow, err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getWorkingDays - rows error: %v", ErrScanRow, err)
	}

	return days, nil
}

func (r *Repository) getBreakWindows(ctx context.Context, executor DBExecutor, locationID int64) ([]domain.BreakWindow, error) {
	query, args, err := psqlbuilder.Select("start_time", "end_time", "label").
		From("break_windows").
		Where(squirrel.Eq{"location_id": locationID}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getBreakWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getBreakWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make([]domain.BreakWindow, 0)
	for rows.Next() {
		var brk domain.BreakWindow
		if err := rows.Scan(&brk.StartTime, &brk.EndTime, &brk.Label); err != nil {
			return nil, fmt.Errorf("%w: getBreakWindows - scan row: %v", ErrScanRow, err)
		}
		breaks = append(breaks, brk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getBreakWindows - rows error: %v", ErrScanRow, err)
	}

	return breaks, nil
}
