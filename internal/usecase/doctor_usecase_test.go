package usecase

import (
	"context"
	"testing"
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/pkg/jwt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doctorRequest(dept *entity.Department, email, license string) *dto.CreateDoctorRequest {
	fee := decimal.NewFromInt(200000)
	return &dto.CreateDoctorRequest{
		Email:           email,
		Password:        "password123",
		FullName:        "Dr. " + license,
		DepartmentID:    dept.ID.String(),
		LicenseNumber:   license,
		ConsultationFee: &fee,
	}
}

func TestCreateDoctor_IDsFollowDepartmentSequence(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	ctx := context.Background()
	cardio := h.fx.Department("CARD", "Cardiology")
	neuro := h.fx.Department("NEURO", "Neurology")

	first, err := h.doctors.CreateDoctor(ctx, adminActor(), doctorRequest(cardio, "a@hospital.test", "LIC-1"))
	require.NoError(t, err)
	second, err := h.doctors.CreateDoctor(ctx, adminActor(), doctorRequest(cardio, "b@hospital.test", "LIC-2"))
	require.NoError(t, err)
	third, err := h.doctors.CreateDoctor(ctx, adminActor(), doctorRequest(neuro, "c@hospital.test", "LIC-3"))
	require.NoError(t, err)

	assert.Equal(t, "CARD-DOC-202506-001", first.ID)
	assert.Equal(t, "CARD-DOC-202506-002", second.ID)
	assert.Equal(t, "NEURO-DOC-202506-001", third.ID)
	assert.True(t, first.IsAvailable)
	assert.Equal(t, "Cardiology", first.DepartmentName)

	// The next month starts a fresh counter.
	pinClock(t, time.Date(2025, time.July, 1, 8, 0, 0, 0, time.UTC))
	fourth, err := h.doctors.CreateDoctor(ctx, adminActor(), doctorRequest(cardio, "d@hospital.test", "LIC-4"))
	require.NoError(t, err)
	assert.Equal(t, "CARD-DOC-202507-001", fourth.ID)
}

func TestCreateDoctor_Rejections(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	ctx := context.Background()
	dept := h.fx.Department("CARD", "Cardiology")

	_, err := h.doctors.CreateDoctor(ctx, adminActor(), doctorRequest(dept, "a@hospital.test", "LIC-1"))
	require.NoError(t, err)

	_, err = h.doctors.CreateDoctor(ctx, adminActor(), doctorRequest(dept, "a@hospital.test", "LIC-2"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = h.doctors.CreateDoctor(ctx, adminActor(), doctorRequest(dept, "b@hospital.test", "LIC-1"))
	assert.ErrorIs(t, err, ErrLicenseAlreadyExists)

	req := doctorRequest(dept, "c@hospital.test", "LIC-3")
	negative := decimal.NewFromInt(-1)
	req.ConsultationFee = &negative
	_, err = h.doctors.CreateDoctor(ctx, adminActor(), req)
	assert.ErrorIs(t, err, ErrInvalidConsultationFee)

	req = doctorRequest(dept, "c@hospital.test", "LIC-3")
	req.DepartmentID = "5f0c3c9e-8a43-4b8e-9d0f-0c7f2f1f9a11"
	_, err = h.doctors.CreateDoctor(ctx, adminActor(), req)
	assert.ErrorIs(t, err, ErrDepartmentNotFound)

	require.NoError(t, h.db.Model(&entity.Department{}).Where("id = ?", dept.ID).Update("is_active", false).Error)
	_, err = h.doctors.CreateDoctor(ctx, adminActor(), doctorRequest(dept, "c@hospital.test", "LIC-3"))
	assert.ErrorIs(t, err, ErrDepartmentInactive)
}

func TestDoctorSchedules(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()
	monday := int(time.Monday)

	tests := []struct {
		name    string
		actor   Actor
		req     *dto.CreateScheduleRequest
		wantErr error
	}{
		{"overlaps morning", adminActor(), &dto.CreateScheduleRequest{DayOfWeek: &monday, StartTime: "11:30", EndTime: "13:00"}, ErrScheduleOverlap},
		{"end before start", adminActor(), &dto.CreateScheduleRequest{DayOfWeek: &monday, StartTime: "14:00", EndTime: "13:00"}, ErrInvalidScheduleRange},
		{"receptionist", receptionistActor(), &dto.CreateScheduleRequest{DayOfWeek: &monday, StartTime: "13:00", EndTime: "15:00"}, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.doctors.CreateSchedule(ctx, tt.actor, c.doctor.ID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Touching the end of the morning block is not an overlap.
	afternoon, err := h.doctors.CreateSchedule(ctx, doctorActor(c.doctor), c.doctor.ID, &dto.CreateScheduleRequest{DayOfWeek: &monday, StartTime: "12:00", EndTime: "13:00", SlotMinutes: 20})
	require.NoError(t, err)
	assert.Equal(t, "Monday", afternoon.DayName)
	assert.Equal(t, 20, afternoon.SlotMinutes)

	schedules, err := h.doctors.ListSchedules(ctx, c.doctor.ID)
	require.NoError(t, err)
	assert.Len(t, schedules, 2)

	assert.ErrorIs(t, h.doctors.DeleteSchedule(ctx, adminActor(), c.doctor.ID, afternoon.ID+100), ErrScheduleNotFound)
	require.NoError(t, h.doctors.DeleteSchedule(ctx, adminActor(), c.doctor.ID, afternoon.ID))

	schedules, err = h.doctors.ListSchedules(ctx, c.doctor.ID)
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
}

func TestGetAvailability(t *testing.T) {
	pinClock(t, clinicMonday.Add(10*time.Hour+5*time.Minute))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()

	h.fx.Appointment("CARD-APT-202506-901", c.patient, c.doctor, clinicMonday, "11:00", entity.AppointmentStatusScheduled)
	h.fx.Appointment("CARD-APT-202506-902", c.patient, c.doctor, clinicMonday, "11:30", entity.AppointmentStatusCancelled)

	today, err := h.doctors.GetAvailability(ctx, c.doctor.ID, "2025-06-30")
	require.NoError(t, err)
	assert.Equal(t, int(time.Monday), today.DayOfWeek)
	assert.Equal(t, []dto.SlotResponse{
		{Time: "10:30", Available: true},
		{Time: "11:00", Available: false},
		{Time: "11:30", Available: true},
	}, today.Slots)

	nextWeek, err := h.doctors.GetAvailability(ctx, c.doctor.ID, "2025-07-07")
	require.NoError(t, err)
	assert.Len(t, nextWeek.Slots, 6)

	past, err := h.doctors.GetAvailability(ctx, c.doctor.ID, "2025-06-23")
	require.NoError(t, err)
	assert.Empty(t, past.Slots)

	tuesday, err := h.doctors.GetAvailability(ctx, c.doctor.ID, "2025-07-01")
	require.NoError(t, err)
	assert.Empty(t, tuesday.Slots)

	_, err = h.doctors.GetAvailability(ctx, c.doctor.ID, "30-06-2025")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	available := false
	_, err = h.doctors.UpdateMyProfile(ctx, doctorActor(c.doctor), &dto.UpdateMyDoctorRequest{IsAvailable: &available})
	require.NoError(t, err)

	off, err := h.doctors.GetAvailability(ctx, c.doctor.ID, "2025-07-07")
	require.NoError(t, err)
	require.Len(t, off.Slots, 6)
	for _, slot := range off.Slots {
		assert.False(t, slot.Available, slot.Time)
	}
}

func TestDeleteDoctor(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()

	h.fx.Appointment("CARD-APT-202506-901", c.patient, c.doctor, clinicMonday, "10:00", entity.AppointmentStatusCompleted)
	assert.ErrorIs(t, h.doctors.DeleteDoctor(ctx, adminActor(), c.doctor.ID), ErrDoctorHasAppointments)

	idle := h.fx.Doctor("CARD-DOC-202506-902", c.dept, "Dr. Idle")
	h.fx.Schedule(idle.ID, time.Tuesday, "09:00", "10:00")
	require.NoError(t, h.tokens.Store(ctx, idle.UserID, jwt.AccessToken, "idle-access", time.Hour))
	require.NoError(t, h.tokens.Store(ctx, idle.UserID, jwt.RefreshToken, "idle-refresh", time.Hour))
	require.NoError(t, h.doctors.DeleteDoctor(ctx, adminActor(), idle.ID))

	live, err := h.tokens.Exists(ctx, idle.UserID, jwt.AccessToken, "idle-access")
	require.NoError(t, err)
	assert.False(t, live, "deleted doctor keeps no session")
	assert.Zero(t, h.tokens.Len())

	_, err = h.doctors.GetDoctor(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	doctors, total, err := h.doctors.ListDoctors(ctx, dto.DoctorListQuery{DepartmentID: c.dept.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, c.doctor.ID, doctors[0].ID)
}
