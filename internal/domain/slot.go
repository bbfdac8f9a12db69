package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// TimeSlot represents a single bookable time-of-day unit for one date
// Available=false тогда и только тогда, когда слот держит живое бронирование
type TimeSlot struct {
	Time      types.TimeString `json:"time"`
	Available bool             `json:"available"`
	BookedBy  *int64           `json:"bookedBy,omitempty"`
}

// DaySlots represents the persisted ledger record for one (location, date)
// Version - счётчик оптимистичной блокировки: каждая запись списка слотов
// инкрементирует его, проигравший CAS перечитывает и повторяет
type DaySlots struct {
	Date    time.Time
	Slots   []TimeSlot
	Version int64
}

// FindSlot возвращает индекс слота с указанным временем или -1
func (d *DaySlots) FindSlot(t types.TimeString) int {
	for i := range d.Slots {
		if d.Slots[i].Time.Equal(t) {
			return i
		}
	}
	return -1
}

// CloneSlots возвращает копию списка слотов для read-check-write цикла
func (d *DaySlots) CloneSlots() []TimeSlot {
	slots := make([]TimeSlot, len(d.Slots))
	copy(slots, d.Slots)
	return slots
}
