package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/repository"
	"hospital-management/internal/service"
	"hospital-management/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRecord(t *testing.T, h *harness, c *clinic) *dto.MedicalRecordResponse {
	t.Helper()
	resp, err := h.records.CreateRecord(context.Background(), doctorActor(c.doctor), &dto.CreateMedicalRecordRequest{
		PatientID: c.patient.ID,
		Symptoms:  "shortness of breath",
		Diagnosis: "Hypertension",
		Vitals:    map[string]interface{}{"bp": "150/95"},
	})
	require.NoError(t, err)
	return resp
}

func TestCreateMedicalRecord(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()

	resp := createRecord(t, h, c)
	assert.Equal(t, "MR-202506-001", resp.ID)
	assert.Equal(t, c.doctor.ID, resp.DoctorID)
	assert.Equal(t, "2025-06-30", resp.VisitDate)

	_, err := h.records.CreateRecord(ctx, receptionistActor(), &dto.CreateMedicalRecordRequest{PatientID: c.patient.ID, Diagnosis: "x"})
	assert.ErrorIs(t, err, ErrDoctorProfileNotFound)

	other := h.fx.Patient("PAT-202506-902", "Budi", nil)
	appt := h.fx.Appointment("CARD-APT-202506-901", other, c.doctor, clinicMonday, "10:00", entity.AppointmentStatusCompleted)
	_, err = h.records.CreateRecord(ctx, doctorActor(c.doctor), &dto.CreateMedicalRecordRequest{
		PatientID:     c.patient.ID,
		AppointmentID: appt.ID,
		Diagnosis:     "x",
	})
	assert.ErrorIs(t, err, ErrRecordAppointmentInvalid)
}

func TestMedicalRecordAccess(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()
	record := createRecord(t, h, c)

	got, err := h.records.GetRecord(ctx, c.patientActor(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hypertension", got.Diagnosis)

	strangerUser := h.fx.User(entity.RoleIDPatient, "budi@example.com", "x")
	h.fx.Patient("PAT-202506-902", "Budi", &strangerUser.ID)
	stranger := Actor{UserID: strangerUser.ID, RoleID: entity.RoleIDPatient}

	_, err = h.records.GetRecord(ctx, stranger, record.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = h.records.ListPatientRecords(ctx, stranger, c.patient.ID, entity.Pagination{})
	assert.ErrorIs(t, err, ErrForbidden)

	list, total, err := h.records.ListPatientRecords(ctx, c.patientActor(), c.patient.ID, entity.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	_, err = h.records.GetRecord(ctx, c.patientActor(), "MR-202506-999")
	assert.ErrorIs(t, err, ErrMedicalRecordNotFound)
}

func TestUpdateMedicalRecord_OnlyAuthor(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()
	record := createRecord(t, h, c)

	colleague := h.fx.Doctor("CARD-DOC-202506-902", c.dept, "Dr. Pulse")
	diagnosis := "Stage 2 hypertension"

	_, err := h.records.UpdateRecord(ctx, doctorActor(colleague), record.ID, &dto.UpdateMedicalRecordRequest{Diagnosis: &diagnosis})
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := h.records.UpdateRecord(ctx, doctorActor(c.doctor), record.ID, &dto.UpdateMedicalRecordRequest{Diagnosis: &diagnosis})
	require.NoError(t, err)
	assert.Equal(t, diagnosis, resp.Diagnosis)
	assert.Equal(t, "shortness of breath", resp.Symptoms)
}

func TestMedicalRecordAttachments(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()
	record := createRecord(t, h, c)

	body := "%PDF-1.4 lab result"
	upload := AttachmentUpload{
		FileName:    `C:\scans\ecg.pdf`,
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
	resp, err := h.records.UploadAttachment(ctx, doctorActor(c.doctor), record.ID, upload)
	require.NoError(t, err)
	assert.Equal(t, "ecg.pdf", resp.FileName)
	assert.Equal(t, int64(len(body)), resp.SizeBytes)
	assert.True(t, strings.HasPrefix(resp.DownloadURL, "https://storage.test/medical-records/"+record.ID+"/"), resp.DownloadURL)
	require.Len(t, h.storage.Objects, 1)

	list, err := h.records.ListAttachments(ctx, c.patientActor(), record.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, resp.ID, list[0].ID)
	assert.NotEmpty(t, list[0].DownloadURL)

	tests := []struct {
		name    string
		actor   Actor
		upload  AttachmentUpload
		wantErr error
	}{
		{"empty", doctorActor(c.doctor), AttachmentUpload{FileName: "a.txt", Body: strings.NewReader("")}, ErrAttachmentEmpty},
		{"too large", doctorActor(c.doctor), AttachmentUpload{FileName: "a.bin", Size: entity.MaxAttachmentSize + 1, Body: strings.NewReader("x")}, ErrAttachmentTooLarge},
		{"patient", c.patientActor(), AttachmentUpload{FileName: "a.txt", Size: 1, Body: strings.NewReader("x")}, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.records.UploadAttachment(ctx, tt.actor, record.ID, tt.upload)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Len(t, h.storage.Objects, 1)
}

func TestMedicalRecordAttachments_WithoutStorage(t *testing.T) {
	h := newHarness(t)
	log := testutil.NewLogger()
	records := NewMedicalRecordUsecase(h.db, log,
		repository.NewMedicalRecordRepository(),
		repository.NewPatientRepository(),
		repository.NewDoctorRepository(),
		repository.NewAppointmentRepository(),
		repository.NewSequenceRepository(),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
		nil,
	)

	_, err := records.UploadAttachment(context.Background(), adminActor(), "MR-202506-001", AttachmentUpload{Size: 1, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = records.ListAttachments(context.Background(), adminActor(), "MR-202506-001")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
