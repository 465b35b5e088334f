package usecase

import (
	"context"
	"testing"
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/pkg/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePatient(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	ctx := context.Background()
	admin := adminActor()

	resp, err := h.patients.CreatePatient(ctx, admin, &dto.CreatePatientRequest{
		FullName:    "  Dewi Lestari ",
		DateOfBirth: "1992-11-02",
		Gender:      "F",
		Email:       "Dewi@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAT-202506-001", resp.ID)
	assert.True(t, idgen.IsPatientID(resp.ID))
	assert.Equal(t, "Dewi Lestari", resp.FullName)
	assert.Equal(t, "dewi@example.com", resp.Email)
	assert.Equal(t, "1992-11-02", resp.DateOfBirth)
	assert.Nil(t, resp.UserID)

	_, err = h.patients.CreatePatient(ctx, admin, &dto.CreatePatientRequest{FullName: "Baby", DateOfBirth: "2025-07-01", Gender: "M"})
	assert.ErrorIs(t, err, ErrDateOfBirthInFuture)

	_, err = h.patients.CreatePatient(ctx, admin, &dto.CreatePatientRequest{FullName: "Baby", DateOfBirth: "01/07/2025", Gender: "M"})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	logs, total, err := h.auditLogs.ListAuditLogs(ctx, entity.AuditLogFilter{Action: entity.AuditActionPatientCreate}, entity.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, resp.ID, logs[0].Metadata["entity_id"])

	got, err := h.auditLogs.GetAuditLog(ctx, logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, logs[0].ID, got.ID)

	_, err = h.auditLogs.GetAuditLog(ctx, logs[0].ID+1000)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}

func TestUpdatePatientProfile(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()

	allergies := "penicillin"
	resp, err := h.patients.UpdateMyProfile(ctx, c.patientActor(), &dto.UpdatePatientRequest{Allergies: &allergies})
	require.NoError(t, err)
	assert.Equal(t, "penicillin", resp.Allergies)
	assert.Equal(t, "Ana", resp.FullName)

	me, err := h.patients.GetMyProfile(ctx, c.patientActor())
	require.NoError(t, err)
	assert.Equal(t, c.patient.ID, me.ID)
	assert.Equal(t, "penicillin", me.Allergies)

	_, err = h.patients.GetMyProfile(ctx, receptionistActor())
	assert.ErrorIs(t, err, ErrPatientProfileNotFound)

	_, err = h.patients.UpdatePatient(ctx, adminActor(), "PAT-202506-999", &dto.UpdatePatientRequest{FullName: "Nobody"})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestListAndDeletePatients(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()
	walkIn := h.fx.Patient("PAT-202506-902", "Budi Santoso", nil)

	list, total, err := h.patients.ListPatients(ctx, "budi", entity.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, walkIn.ID, list[0].ID)

	h.fx.Appointment("CARD-APT-202506-901", c.patient, c.doctor, clinicMonday, "10:00", entity.AppointmentStatusCompleted)
	assert.ErrorIs(t, h.patients.DeletePatient(ctx, adminActor(), c.patient.ID), ErrPatientHasAppointments)

	require.NoError(t, h.patients.DeletePatient(ctx, adminActor(), walkIn.ID))
	_, err = h.patients.GetPatient(ctx, walkIn.ID)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
