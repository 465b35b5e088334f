package usecase

import (
	"sort"
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/samber/lo"
)

// daySlots lists every slot start of the schedules in time order. Slots that
// are booked, or already started when date is today, are unavailable; slots
// of past days are left out entirely.
func daySlots(schedules []entity.DoctorSchedule, booked []string, date time.Time, current time.Time) []dto.SlotResponse {
	day := entity.DateOnly(date)
	currentDay := entity.DateOnly(current)
	if day.Before(currentDay) {
		return []dto.SlotResponse{}
	}

	starts := lo.Uniq(lo.FlatMap(schedules, func(s entity.DoctorSchedule, _ int) []string {
		return s.Slots()
	}))
	sort.Strings(starts)

	if day.Equal(currentDay) {
		cutoff := entity.FormatClock(current.Hour()*60 + current.Minute())
		starts = lo.Filter(starts, func(clock string, _ int) bool {
			return clock > cutoff
		})
	}

	taken := lo.SliceToMap(booked, func(clock string) (string, bool) {
		return clock, true
	})

	return lo.Map(starts, func(clock string, _ int) dto.SlotResponse {
		return dto.SlotResponse{Time: clock, Available: !taken[clock]}
	})
}

// freeSlots returns the start times still open, earliest first.
func freeSlots(slots []dto.SlotResponse) []string {
	return lo.FilterMap(slots, func(s dto.SlotResponse, _ int) (string, bool) {
		return s.Time, s.Available
	})
}

func scheduleHasSlot(schedules []entity.DoctorSchedule, clock string) bool {
	return lo.SomeBy(schedules, func(s entity.DoctorSchedule) bool {
		return s.HasSlot(clock)
	})
}
