package domain

import (
	"strings"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// WorkingDay represents the operating hours for one weekday
type WorkingDay struct {
	Weekday   string // "monday" .. "sunday"
	StartTime types.TimeString
	EndTime   types.TimeString
	IsWorking bool
}

// BreakWindow represents a sub-interval of a working day excluded from slot generation
// Полуоткрытый интервал [StartTime, EndTime)
type BreakWindow struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Label     string
}

// Contains returns true if t falls inside the break window [start, end)
func (b *BreakWindow) Contains(t types.TimeString) bool {
	return !t.IsBefore(b.StartTime) && t.IsBefore(b.EndTime)
}

// TimeSlotsConfig represents the weekly slot configuration of a location
type TimeSlotsConfig struct {
	IntervalMinutes int
	WorkingDays     []WorkingDay // не больше одной записи на день недели
	Breaks          []BreakWindow
}

// WorkingDayFor возвращает конфигурацию для дня недели или nil, если её нет
func (c *TimeSlotsConfig) WorkingDayFor(weekday string) *WorkingDay {
	weekday = strings.ToLower(weekday)
	for i := range c.WorkingDays {
		if strings.ToLower(c.WorkingDays[i].Weekday) == weekday {
			return &c.WorkingDays[i]
		}
	}
	return nil
}
