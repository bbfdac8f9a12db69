// Package slotledger хранение ledger слотов: одна строка day_slots на (локация, дата),
// список слотов лежит в jsonb-колонке, колонка version - счётчик оптимистичной блокировки.
package slotledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий ledger'а слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ledger'а
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetDay читает запись слотов на дату вместе с текущей версией
func (r *Repository) GetDay(ctx context.Context, locationID int64, date time.Time) (*domain.DaySlots, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "slots", "version").
		From("day_slots").
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.Eq{"slot_date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDay - build select query: %v", ErrBuildQuery, err)
	}

	var day domain.DaySlots
	var rawSlots []byte

	err = executor.QueryRowContext(ctx, query, args...).Scan(&day.Date, &rawSlots, &day.Version)
	if err == sql.ErrNoRows {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDay - scan day slots: %v", ErrScanRow, err)
	}

	if err := json.Unmarshal(rawSlots, &day.Slots); err != nil {
		return nil, fmt.Errorf("%w: GetDay - decode slots: %v", ErrScanRow, err)
	}

	return &day, nil
}

// GetRange читает записи слотов за диапазон дат [from, to] в порядке дат
func (r *Repository) GetRange(ctx context.Context, locationID int64, from, to time.Time) ([]*domain.DaySlots, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "slots", "version").
		From("day_slots").
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.GtOrEq{"slot_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"slot_date": to.Format(domain.DateFormat)}).
		OrderBy("slot_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.DaySlots, 0)
	for rows.Next() {
		var day domain.DaySlots
		var rawSlots []byte
		if err := rows.Scan(&day.Date, &rawSlots, &day.Version); err != nil {
			return nil, fmt.Errorf("%w: GetRange - scan row: %v", ErrScanRow, err)
		}
		if err := json.Unmarshal(rawSlots, &day.Slots); err != nil {
			return nil, fmt.Errorf("%w: GetRange - decode slots: %v", ErrScanRow, err)
		}
		days = append(days, &day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRange - rows error: %v", ErrScanRow, err)
	}

	return days, nil
}

// InsertDay создает запись слотов на дату с версией 1
// Если запись уже существует (параллельная публикация), возвращает ErrVersionConflict -
// вызывающий перечитывает день и идет по CAS-пути
func (r *Repository) InsertDay(ctx context.Context, locationID int64, date time.Time, slots []domain.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rawSlots, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: InsertDay - marshal slots: %v", ErrEncodeSlots, err)
	}

	query, args, err := psqlbuilder.Insert("day_slots").
		Columns("location_id", "slot_date", "slots", "version").
		Values(locationID, date.Format(domain.DateFormat), rawSlots, 1).
		Suffix("ON CONFLICT (location_id, slot_date) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: InsertDay - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: InsertDay - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: InsertDay - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}

// UpdateSlots атомарно заменяет список слотов дня
// Запись проходит только если версия не изменилась с момента чтения (compare-and-set);
// при несовпадении версии ни одна строка не обновляется и возвращается ErrVersionConflict
func (r *Repository) UpdateSlots(ctx context.Context, locationID int64, date time.Time, slots []domain.TimeSlot, expectedVersion int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rawSlots, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: UpdateSlots - marshal slots: %v", ErrEncodeSlots, err)
	}

	query, args, err := psqlbuilder.Update("day_slots").
		Set("slots", rawSlots).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.Eq{"slot_date": date.Format(domain.DateFormat)}).
		Where(squirrel.Eq{"version": expectedVersion}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSlots - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSlots - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSlots - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}
