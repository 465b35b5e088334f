package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusConfirmed, true},
		{AppointmentStatusScheduled, AppointmentStatusCheckedIn, false},
		{AppointmentStatusConfirmed, AppointmentStatusCheckedIn, true},
		{AppointmentStatusCheckedIn, AppointmentStatusInProgress, true},
		{AppointmentStatusCheckedIn, AppointmentStatusNoShow, false},
		{AppointmentStatusInProgress, AppointmentStatusCompleted, true},
		{AppointmentStatusInProgress, AppointmentStatusCancelled, false},
		{AppointmentStatusCompleted, AppointmentStatusScheduled, false},
		{AppointmentStatusCancelled, AppointmentStatusScheduled, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, AppointmentStatusCompleted.IsFinal())
	assert.False(t, AppointmentStatusConfirmed.IsFinal())
}

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPaid))
	assert.True(t, PaymentStatusPaid.CanTransitionTo(PaymentStatusRefunded))
	assert.False(t, PaymentStatusPending.CanTransitionTo(PaymentStatusRefunded))
	assert.False(t, PaymentStatusRefunded.CanTransitionTo(PaymentStatusPaid))
}

func TestDoctorSchedule_Slots(t *testing.T) {
	s := DoctorSchedule{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:40", SlotMinutes: 30}
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, s.Slots())
	assert.True(t, s.HasSlot("09:30"))
	assert.False(t, s.HasSlot("10:30"))

	defaulted := DoctorSchedule{StartTime: "13:00", EndTime: "14:00"}
	assert.Equal(t, []string{"13:00", "13:30"}, defaulted.Slots())
}

func TestDoctorSchedule_Overlaps(t *testing.T) {
	a := DoctorSchedule{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00"}

	assert.True(t, a.Overlaps(DoctorSchedule{DayOfWeek: 2, StartTime: "11:00", EndTime: "13:00"}))
	assert.False(t, a.Overlaps(DoctorSchedule{DayOfWeek: 2, StartTime: "12:00", EndTime: "13:00"}))
	assert.False(t, a.Overlaps(DoctorSchedule{DayOfWeek: 3, StartTime: "09:00", EndTime: "12:00"}))
}

func TestPagination_Normalize(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: DefaultPageLimit}, Pagination{}.Normalize())
	assert.Equal(t, Pagination{Page: 3, Limit: MaxPageLimit}, Pagination{Page: 3, Limit: 1000}.Normalize())
	assert.Equal(t, 20, Pagination{Page: 3, Limit: 10}.Offset())
}

func TestAppointment_StartsAt(t *testing.T) {
	a := Appointment{AppointmentDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), AppointmentTime: "14:30"}
	assert.Equal(t, time.Date(2025, 6, 30, 14, 30, 0, 0, time.UTC), a.StartsAt(time.UTC))
}

func TestRoleName(t *testing.T) {
	assert.Equal(t, RoleReceptionist, RoleName(RoleIDReceptionist))
	id, ok := RoleIDByName("doctor")
	assert.True(t, ok)
	assert.Equal(t, RoleIDDoctor, id)
	assert.Equal(t, "", RoleName(42))
}
