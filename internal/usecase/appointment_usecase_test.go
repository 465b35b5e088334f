package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookRequest(c *clinic, date, clock string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		PatientID:       c.patient.ID,
		DoctorID:        c.doctor.ID,
		AppointmentDate: date,
		AppointmentTime: clock,
	}
}

func TestCreateAppointment_PatientBooksForThemself(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()

	req := bookRequest(c, "2025-07-07", "09:30")
	req.PatientID = ""
	resp, err := h.appointments.CreateAppointment(context.Background(), c.patientActor(), req)
	require.NoError(t, err)

	assert.Equal(t, "CARD-APT-202506-001", resp.ID)
	assert.Equal(t, c.patient.ID, resp.PatientID)
	assert.Equal(t, string(entity.AppointmentStatusScheduled), resp.Status)
	assert.Equal(t, entity.AppointmentTypeConsultation, resp.Type)

	require.Equal(t, 1, h.publisher.Count())
	assert.ElementsMatch(t, []uuid.UUID{c.patientUser.ID, c.doctor.UserID}, h.publisher.Events[0].UserIDs)
}

func TestCreateAppointment_FrontDeskMustNamePatient(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()

	req := bookRequest(c, "2025-07-07", "09:30")
	req.PatientID = ""
	_, err := h.appointments.CreateAppointment(context.Background(), receptionistActor(), req)
	assert.ErrorIs(t, err, ErrPatientIDRequired)

	_, err = h.appointments.CreateAppointment(context.Background(), doctorActor(c.doctor), bookRequest(c, "2025-07-07", "09:30"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateAppointment_SlotRules(t *testing.T) {
	pinClock(t, clinicMonday.Add(9*time.Hour+15*time.Minute))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()
	other := h.fx.Patient("PAT-202506-902", "Budi", nil)

	_, err := h.appointments.CreateAppointment(ctx, adminActor(), bookRequest(c, "2025-07-07", "10:00"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     *dto.CreateAppointmentRequest
		wantErr error
	}{
		{"yesterday", bookRequest(c, "2025-06-29", "10:00"), ErrAppointmentInPast},
		{"earlier today", bookRequest(c, "2025-06-30", "09:00"), ErrAppointmentInPast},
		{"outside schedule", bookRequest(c, "2025-07-07", "13:00"), ErrNotInSchedule},
		{"off grid", bookRequest(c, "2025-07-07", "10:10"), ErrNotInSchedule},
		{"day without schedule", bookRequest(c, "2025-07-08", "10:00"), ErrNotInSchedule},
		{"same slot again", bookRequest(c, "2025-07-07", "10:00"), ErrSlotTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.appointments.CreateAppointment(ctx, adminActor(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("doctor slot taken by another patient", func(t *testing.T) {
		req := bookRequest(c, "2025-07-07", "10:00")
		req.PatientID = other.ID
		_, err := h.appointments.CreateAppointment(ctx, adminActor(), req)
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("later today is fine", func(t *testing.T) {
		_, err := h.appointments.CreateAppointment(ctx, adminActor(), bookRequest(c, "2025-06-30", "09:30"))
		assert.NoError(t, err)
	})
}

func TestCreateAppointment_PatientDoubleBooked(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()

	second := h.fx.Doctor("CARD-DOC-202506-902", c.dept, "Dr. Pulse")
	h.fx.Schedule(second.ID, time.Monday, "09:00", "12:00")

	_, err := h.appointments.CreateAppointment(ctx, adminActor(), bookRequest(c, "2025-07-07", "11:00"))
	require.NoError(t, err)

	req := bookRequest(c, "2025-07-07", "11:00")
	req.DoctorID = second.ID
	_, err = h.appointments.CreateAppointment(ctx, adminActor(), req)
	assert.ErrorIs(t, err, ErrPatientDoubleBooked)
}

func TestCreateAppointment_UnavailableDoctor(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()

	require.NoError(t, h.db.Model(&entity.Doctor{}).Where("id = ?", c.doctor.ID).Update("is_available", false).Error)

	_, err := h.appointments.CreateAppointment(context.Background(), adminActor(), bookRequest(c, "2025-07-07", "09:00"))
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
}

func TestCancelAppointment_FreesSlot(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()

	booked, err := h.appointments.CreateAppointment(ctx, c.patientActor(), bookRequest(c, "2025-07-07", "09:00"))
	require.NoError(t, err)

	cancelled, err := h.appointments.Cancel(ctx, c.patientActor(), booked.ID, &dto.CancelAppointmentRequest{Reason: "feeling better"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCancelled), cancelled.Status)
	assert.Equal(t, "feeling better", cancelled.CancelReason)

	_, err = h.appointments.Cancel(ctx, c.patientActor(), booked.ID, &dto.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, ErrNotCancellable)

	rebooked, err := h.appointments.CreateAppointment(ctx, c.patientActor(), bookRequest(c, "2025-07-07", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, "CARD-APT-202506-002", rebooked.ID)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()
	staff := doctorActor(c.doctor)

	appt := h.fx.Appointment("CARD-APT-202506-901", c.patient, c.doctor, clinicMonday, "10:00", entity.AppointmentStatusScheduled)

	_, err := h.appointments.UpdateStatus(ctx, staff, appt.ID, &dto.UpdateAppointmentStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = h.appointments.UpdateStatus(ctx, c.patientActor(), appt.ID, &dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := h.appointments.UpdateStatus(ctx, staff, appt.ID, &dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	resp, err = h.appointments.UpdateStatus(ctx, staff, appt.ID, &dto.UpdateAppointmentStatusRequest{Status: "checked_in"})
	require.NoError(t, err)
	require.NotNil(t, resp.QueueNumber)
	assert.Equal(t, 1, *resp.QueueNumber)
	assert.NotNil(t, resp.CheckedInAt)

	for _, status := range []string{"in_progress", "completed"} {
		resp, err = h.appointments.UpdateStatus(ctx, staff, appt.ID, &dto.UpdateAppointmentStatusRequest{Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, resp.Status)
	}

	_, err = h.appointments.Cancel(ctx, staff, appt.ID, &dto.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestRescheduleAppointment(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()

	appt := h.fx.Appointment("CARD-APT-202506-901", c.patient, c.doctor, clinicMonday, "10:00", entity.AppointmentStatusConfirmed)
	other := h.fx.Patient("PAT-202506-902", "Budi", nil)
	h.fx.Appointment("CARD-APT-202506-902", other, c.doctor, clinicMonday.AddDate(0, 0, 7), "09:00", entity.AppointmentStatusScheduled)

	_, err := h.appointments.Reschedule(ctx, c.patientActor(), appt.ID, &dto.RescheduleAppointmentRequest{AppointmentDate: "2025-07-07", AppointmentTime: "09:00"})
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Moving within the same day onto its own slot is not a clash.
	resp, err := h.appointments.Reschedule(ctx, c.patientActor(), appt.ID, &dto.RescheduleAppointmentRequest{AppointmentDate: "2025-06-30", AppointmentTime: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, "scheduled", resp.Status)

	resp, err = h.appointments.Reschedule(ctx, c.patientActor(), appt.ID, &dto.RescheduleAppointmentRequest{AppointmentDate: "2025-07-07", AppointmentTime: "11:30"})
	require.NoError(t, err)
	assert.Equal(t, "2025-07-07", resp.AppointmentDate)
	assert.Equal(t, "11:30", resp.AppointmentTime)

	done := h.fx.Appointment("CARD-APT-202506-903", c.patient, c.doctor, clinicMonday, "11:00", entity.AppointmentStatusCompleted)
	_, err = h.appointments.Reschedule(ctx, c.patientActor(), done.ID, &dto.RescheduleAppointmentRequest{AppointmentDate: "2025-07-07", AppointmentTime: "10:00"})
	assert.ErrorIs(t, err, ErrNotReschedulable)
}

func TestAppointmentAccessIsScoped(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()

	strangerUser := h.fx.User(entity.RoleIDPatient, "budi@example.com", "x")
	stranger := h.fx.Patient("PAT-202506-902", "Budi", &strangerUser.ID)
	strangerActor := Actor{UserID: strangerUser.ID, RoleID: entity.RoleIDPatient}

	mine := h.fx.Appointment("CARD-APT-202506-901", c.patient, c.doctor, clinicMonday, "10:00", entity.AppointmentStatusScheduled)
	h.fx.Appointment("CARD-APT-202506-902", stranger, c.doctor, clinicMonday, "10:30", entity.AppointmentStatusScheduled)

	list, total, err := h.appointments.ListAppointments(ctx, c.patientActor(), dto.AppointmentListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	// A patient cannot widen the filter to someone else.
	_, total, err = h.appointments.ListAppointments(ctx, c.patientActor(), dto.AppointmentListQuery{PatientID: stranger.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = h.appointments.GetAppointment(ctx, strangerActor, mine.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = h.appointments.GetAppointment(ctx, c.patientActor(), "CARD-APT-202506-999")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, total, err = h.appointments.ListAppointments(ctx, doctorActor(c.doctor), dto.AppointmentListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = h.appointments.ListAppointments(ctx, receptionistActor(), dto.AppointmentListQuery{DateFrom: "2025-07-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSlotConflict(t *testing.T) {
	unique := func(constraint string) error {
		return fmt.Errorf("insert appointment: %w", &pgconn.PgError{Code: "23505", ConstraintName: constraint})
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"doctor slot", unique("uq_appointments_doctor_slot"), ErrSlotTaken},
		{"patient slot", unique("uq_appointments_patient_slot"), ErrPatientDoubleBooked},
		{"other unique index", unique("uq_users_email"), nil},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "fk_appointments_doctor"}, nil},
		{"plain error", errors.New("connection reset"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slotConflict(tt.err))
		})
	}
}
