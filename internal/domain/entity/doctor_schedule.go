package entity

import (
	"fmt"
	"time"
)

// DoctorSchedule is a weekly working block of a doctor. Appointments are cut
// into SlotMinutes long slots between StartTime and EndTime.
type DoctorSchedule struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    string    `gorm:"type:varchar(32);not null;index:idx_doctor_schedules_doctor_day" json:"doctor_id"`
	DayOfWeek   int       `gorm:"not null;index:idx_doctor_schedules_doctor_day" json:"day_of_week"`
	StartTime   string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string    `gorm:"type:varchar(5);not null" json:"end_time"`
	SlotMinutes int       `gorm:"not null;default:30" json:"slot_minutes"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorSchedule) TableName() string {
	return "doctor_schedules"
}

const DefaultSlotMinutes = 30

// Overlaps reports whether two blocks on the same weekday intersect.
func (s *DoctorSchedule) Overlaps(other DoctorSchedule) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}

// Slots lists the HH:MM start times of every slot in the block.
func (s *DoctorSchedule) Slots() []string {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return nil
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return nil
	}
	step := s.SlotMinutes
	if step <= 0 {
		step = DefaultSlotMinutes
	}

	var slots []string
	for m := start; m+step <= end; m += step {
		slots = append(slots, FormatClock(m))
	}
	return slots
}

// HasSlot reports whether clock is the start of one of the block's slots.
func (s *DoctorSchedule) HasSlot(clock string) bool {
	for _, slot := range s.Slots() {
		if slot == clock {
			return true
		}
	}
	return false
}

// ParseClock converts HH:MM to minutes after midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
