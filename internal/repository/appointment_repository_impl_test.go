package repository

import (
	"testing"
	"time"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentRepository_SlotQueries(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewAppointmentRepository()

	dept := fx.Department("CARD", "Cardiology")
	doctor := fx.Doctor("CARD-DOC-202506-001", dept, "Dr. Strange")
	patient := fx.Patient("PAT-202506-001", "Jane Roe", nil)
	date := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	fx.Appointment("CARD-APT-202506-001", patient, doctor, date, "09:00", entity.AppointmentStatusScheduled)
	fx.Appointment("CARD-APT-202506-002", patient, doctor, date, "09:30", entity.AppointmentStatusCancelled)

	taken, err := repo.FindActiveByDoctorSlot(db, doctor.ID, date, "09:00", "")
	require.NoError(t, err)
	require.NotNil(t, taken)
	assert.Equal(t, "CARD-APT-202506-001", taken.ID)

	excluded, err := repo.FindActiveByDoctorSlot(db, doctor.ID, date, "09:00", "CARD-APT-202506-001")
	require.NoError(t, err)
	assert.Nil(t, excluded)

	cancelled, err := repo.FindActiveByDoctorSlot(db, doctor.ID, date, "09:30", "")
	require.NoError(t, err)
	assert.Nil(t, cancelled, "cancelled appointments free their slot")

	booked, err := repo.FindBookedTimes(db, doctor.ID, date)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, booked)

	patientSlot, err := repo.FindActiveByPatientSlot(db, patient.ID, date, "09:00", "")
	require.NoError(t, err)
	assert.NotNil(t, patientSlot)
}

func TestAppointmentRepository_QueueAndCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewAppointmentRepository()

	dept := fx.Department("NEURO", "Neurology")
	doctor := fx.Doctor("NEURO-DOC-202506-001", dept, "Dr. Grey")
	patient := fx.Patient("PAT-202506-001", "John Doe", nil)
	date := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	max, err := repo.MaxQueueNumber(db, doctor.ID, date)
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	a := fx.Appointment("NEURO-APT-202506-001", patient, doctor, date, "10:00", entity.AppointmentStatusCheckedIn)
	queue := 4
	a.QueueNumber = &queue
	require.NoError(t, repo.Update(db, a))
	fx.Appointment("NEURO-APT-202506-002", patient, doctor, date, "10:30", entity.AppointmentStatusScheduled)

	max, err = repo.MaxQueueNumber(db, doctor.ID, date)
	require.NoError(t, err)
	assert.Equal(t, 4, max)

	inQueue, err := repo.FindQueue(db, date, nil)
	require.NoError(t, err)
	require.Len(t, inQueue, 1)
	assert.Equal(t, a.ID, inQueue[0].ID)

	counts, err := repo.CountByStatus(db, date)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[entity.AppointmentStatusCheckedIn])
	assert.Equal(t, int64(1), counts[entity.AppointmentStatusScheduled])
}

func TestAppointmentRepository_FindAllFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewAppointmentRepository()

	dept := fx.Department("CARD", "Cardiology")
	doctor := fx.Doctor("CARD-DOC-202506-001", dept, "Dr. Strange")
	p1 := fx.Patient("PAT-202506-001", "Jane Roe", nil)
	p2 := fx.Patient("PAT-202506-002", "Rick Roe", nil)

	d1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	fx.Appointment("CARD-APT-202506-001", p1, doctor, d1, "09:00", entity.AppointmentStatusCompleted)
	fx.Appointment("CARD-APT-202506-002", p2, doctor, d2, "09:00", entity.AppointmentStatusScheduled)
	fx.Appointment("CARD-APT-202506-003", p1, doctor, d2, "09:30", entity.AppointmentStatusScheduled)

	all, total, err := repo.FindAll(db, entity.AppointmentFilter{}, entity.Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 2)
	assert.Equal(t, "CARD-APT-202506-003", all[0].ID)

	mine, total, err := repo.FindAll(db, entity.AppointmentFilter{PatientID: p1.ID}, entity.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, mine, 2)

	from := d2
	later, _, err := repo.FindAll(db, entity.AppointmentFilter{DateFrom: &from, Status: entity.AppointmentStatusScheduled}, entity.Pagination{})
	require.NoError(t, err)
	assert.Len(t, later, 2)
	assert.Equal(t, "Dr. Strange", later[0].Doctor.User.FullName)
}
