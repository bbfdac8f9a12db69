// Package schedule генерация календаря слотов из недельной конфигурации рабочих часов.
// Чистая функция: не читает существующие бронирования и не пишет в ledger,
// отвечает на вопрос "что могло бы быть забронировано".
package schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Generate строит календарь шаблонов слотов для диапазона дат [startDate, endDate]
// Для дня без записи WorkingDay или с isWorking=false запись DaySlots не создается
// Все слоты лежат внутри [start, end) рабочего дня и вне всех перерывов
func Generate(cfg domain.TimeSlotsConfig, startDate, endDate time.Time) ([]domain.DaySlots, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	start := truncateToDay(startDate)
	end := truncateToDay(endDate)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: endDate %s before startDate %s",
			ErrInvalidDateRange, end.Format(domain.DateFormat), start.Format(domain.DateFormat))
	}

	days := make([]domain.DaySlots, 0)

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		workingDay := cfg.WorkingDayFor(domain.WeekdayName(date.Weekday()))
		if workingDay == nil || !workingDay.IsWorking {
			continue
		}

		slots, err := generateDaySlots(workingDay, cfg.Breaks, cfg.IntervalMinutes)
		if err != nil {
			return nil, err
		}

		days = append(days, domain.DaySlots{
			Date:  date,
			Slots: slots,
		})
	}

	return days, nil
}

// ValidateConfig проверяет конфигурацию целиком до генерации
func ValidateConfig(cfg domain.TimeSlotsConfig) error {
	if cfg.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %d", ErrConfig, cfg.IntervalMinutes)
	}

	seen := make(map[string]bool, len(cfg.WorkingDays))
	for _, day := range cfg.WorkingDays {
		if seen[day.Weekday] {
			return fmt.Errorf("%w: duplicate working day %q", ErrConfig, day.Weekday)
		}
		seen[day.Weekday] = true

		if !day.IsWorking {
			continue
		}
		if err := day.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: working day %q start time: %v", ErrConfig, day.Weekday, err)
		}
		if err := day.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: working day %q end time: %v", ErrConfig, day.Weekday, err)
		}
		if !day.StartTime.IsBefore(day.EndTime) {
			return fmt.Errorf("%w: working day %q has non-monotonic hours %s-%s",
				ErrConfig, day.Weekday, day.StartTime, day.EndTime)
		}
	}

	for _, brk := range cfg.Breaks {
		if err := brk.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: break %q start time: %v", ErrConfig, brk.Label, err)
		}
		if err := brk.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: break %q end time: %v", ErrConfig, brk.Label, err)
		}
		if !brk.StartTime.IsBefore(brk.EndTime) {
			return fmt.Errorf("%w: break %q has non-monotonic window %s-%s",
				ErrConfig, brk.Label, brk.StartTime, brk.EndTime)
		}
	}

	return nil
}

// generateDaySlots генерирует слоты одного дня: шаг interval от начала до конца
// рабочего дня, последний слот строго раньше конца, перерывы исключаются
func generateDaySlots(day *domain.WorkingDay, breaks []domain.BreakWindow, interval int) ([]domain.TimeSlot, error) {
	slots := make([]domain.TimeSlot, 0)

	current := day.StartTime
	for current.IsBefore(day.EndTime) {
		if !insideBreak(current, breaks) {
			slots = append(slots, domain.TimeSlot{
				Time:      current,
				Available: true,
			})
		}

		next, err := current.AddMinutes(interval)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		current = next
	}

	return slots, nil
}

func insideBreak(t types.TimeString, breaks []domain.BreakWindow) bool {
	for i := range breaks {
		if breaks[i].Contains(t) {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
