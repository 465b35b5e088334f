package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/infrastructure/storage"
	"hospital-management/internal/service"
	"hospital-management/pkg/idgen"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrMedicalRecordNotFound    = errors.New("medical record not found")
	ErrRecordAppointmentInvalid = errors.New("appointment does not belong to this patient")
	ErrStorageUnavailable       = errors.New("attachment storage is not configured")
	ErrAttachmentTooLarge       = errors.New("attachment exceeds the 10 MiB limit")
	ErrAttachmentEmpty          = errors.New("attachment is empty")
)

const attachmentURLExpiry = 15 * time.Minute

type MedicalRecordUsecase interface {
	CreateRecord(ctx context.Context, actor Actor, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	GetRecord(ctx context.Context, actor Actor, id string) (*dto.MedicalRecordResponse, error)
	UpdateRecord(ctx context.Context, actor Actor, id string, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	ListPatientRecords(ctx context.Context, actor Actor, patientID string, page entity.Pagination) ([]dto.MedicalRecordResponse, int64, error)
	UploadAttachment(ctx context.Context, actor Actor, recordID string, file AttachmentUpload) (*dto.AttachmentResponse, error)
	ListAttachments(ctx context.Context, actor Actor, recordID string) ([]dto.AttachmentResponse, error)
}

// AttachmentUpload is one file taken from a multipart request.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type medicalRecordUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	recordRepo      repository.MedicalRecordRepository
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	sequenceRepo    repository.SequenceRepository
	auditService    service.AuditService
	objectStorage   storage.ObjectStorage
}

// NewMedicalRecordUsecase accepts a nil objectStorage; attachment operations
// then fail with ErrStorageUnavailable.
func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	recordRepo repository.MedicalRecordRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	sequenceRepo repository.SequenceRepository,
	auditService service.AuditService,
	objectStorage storage.ObjectStorage,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:              db,
		log:             log,
		recordRepo:      recordRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		sequenceRepo:    sequenceRepo,
		auditService:    auditService,
		objectStorage:   objectStorage,
	}
}

func (u *medicalRecordUsecase) callerDoctor(db *gorm.DB, actor Actor) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByUserID(db, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by user ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}
	return doctor, nil
}

func (u *medicalRecordUsecase) CreateRecord(ctx context.Context, actor Actor, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	visitDate := today()
	if req.VisitDate != "" {
		d, err := parseDate(req.VisitDate)
		if err != nil {
			return nil, err
		}
		visitDate = d
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.callerDoctor(tx, actor)
	if err != nil {
		return nil, err
	}

	patient, err := findPatient(tx, u.log, u.patientRepo, req.PatientID)
	if err != nil {
		return nil, err
	}

	var appointmentID *string
	if req.AppointmentID != "" {
		appointment, err := u.appointmentRepo.FindByID(tx, req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment by ID: %+v", err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		if appointment.PatientID != patient.ID {
			return nil, ErrRecordAppointmentInvalid
		}
		appointmentID = &appointment.ID
	}

	recordID, err := nextID(tx, u.sequenceRepo, idgen.KindMedicalRecord, "")
	if err != nil {
		u.log.Warnf("Failed to allocate medical record ID: %+v", err)
		return nil, err
	}

	record := &entity.MedicalRecord{
		ID:            recordID,
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		AppointmentID: appointmentID,
		VisitDate:     visitDate,
		Symptoms:      req.Symptoms,
		Diagnosis:     strings.TrimSpace(req.Diagnosis),
		Treatment:     req.Treatment,
		Prescription:  req.Prescription,
		Notes:         req.Notes,
	}
	if len(req.Vitals) > 0 {
		record.Vitals = datatypes.JSONMap(req.Vitals)
	}
	if err := u.recordRepo.Create(tx, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, actor.ref(), entity.AuditActionRecordCreate, "medical_record", record.ID, record)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	record.Patient = *patient
	record.Doctor = *doctor
	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) findRecord(db *gorm.DB, id string) (*entity.MedicalRecord, error) {
	record, err := u.recordRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find medical record by ID: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrMedicalRecordNotFound
	}
	return record, nil
}

// canView lets staff read every record and patients only their own.
func canView(actor Actor, patient *entity.Patient) bool {
	if actor.IsStaff() {
		return true
	}
	return patient.UserID != nil && *patient.UserID == actor.UserID
}

func (u *medicalRecordUsecase) GetRecord(ctx context.Context, actor Actor, id string) (*dto.MedicalRecordResponse, error) {
	record, err := u.findRecord(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, &record.Patient) {
		return nil, ErrForbidden
	}
	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) UpdateRecord(ctx context.Context, actor Actor, id string, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.findRecord(tx, id)
	if err != nil {
		return nil, err
	}

	doctor, err := u.doctorRepo.FindByUserID(tx, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by user ID: %+v", err)
		return nil, err
	}
	if doctor == nil || doctor.ID != record.DoctorID {
		return nil, ErrForbidden
	}

	before := *record
	if req.Symptoms != nil {
		record.Symptoms = *req.Symptoms
	}
	if req.Diagnosis != nil {
		record.Diagnosis = strings.TrimSpace(*req.Diagnosis)
	}
	if req.Treatment != nil {
		record.Treatment = *req.Treatment
	}
	if req.Prescription != nil {
		record.Prescription = *req.Prescription
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	if req.Vitals != nil {
		record.Vitals = datatypes.JSONMap(req.Vitals)
	}

	if err := u.recordRepo.Update(tx, record); err != nil {
		u.log.Warnf("Failed to update medical record: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, actor.ref(), entity.AuditActionRecordUpdate, "medical_record", record.ID, before, record)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) ListPatientRecords(ctx context.Context, actor Actor, patientID string, page entity.Pagination) ([]dto.MedicalRecordResponse, int64, error) {
	db := u.db.WithContext(ctx)
	patient, err := findPatient(db, u.log, u.patientRepo, patientID)
	if err != nil {
		return nil, 0, err
	}
	if !canView(actor, patient) {
		return nil, 0, ErrForbidden
	}

	records, total, err := u.recordRepo.FindByPatientID(db, patient.ID, page)
	if err != nil {
		u.log.Warnf("Failed to find medical records: %+v", err)
		return nil, 0, err
	}
	return converter.MedicalRecordsToResponses(records), total, nil
}

// attachmentKey namespaces uploads by record and keeps only the base name of
// the client supplied file name.
func attachmentKey(recordID string, id uuid.UUID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return fmt.Sprintf("medical-records/%s/%s-%s", recordID, id.String(), name)
}

func (u *medicalRecordUsecase) UploadAttachment(ctx context.Context, actor Actor, recordID string, file AttachmentUpload) (*dto.AttachmentResponse, error) {
	if u.objectStorage == nil {
		return nil, ErrStorageUnavailable
	}
	if file.Size <= 0 {
		return nil, ErrAttachmentEmpty
	}
	if file.Size > entity.MaxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}

	record, err := u.findRecord(u.db.WithContext(ctx), recordID)
	if err != nil {
		return nil, err
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := &entity.MedicalRecordAttachment{
		ID:              uuid.New(),
		MedicalRecordID: record.ID,
		FileName:        path.Base(strings.ReplaceAll(file.FileName, "\\", "/")),
		ContentType:     contentType,
		SizeBytes:       file.Size,
		UploadedBy:      actor.ref(),
	}
	attachment.ObjectKey = attachmentKey(record.ID, attachment.ID, file.FileName)

	// Object first: a failed insert may orphan it, never the reverse.
	if err := u.objectStorage.Put(ctx, attachment.ObjectKey, contentType, file.Body, file.Size); err != nil {
		u.log.Warnf("Failed to upload attachment: %+v", err)
		return nil, err
	}

	if err := u.recordRepo.CreateAttachment(u.db.WithContext(ctx), attachment); err != nil {
		u.log.Warnf("Failed to create attachment: %+v", err)
		return nil, err
	}

	url, err := u.objectStorage.PresignGet(ctx, attachment.ObjectKey, attachmentURLExpiry)
	if err != nil {
		u.log.Warnf("Failed to presign attachment: %+v", err)
		url = ""
	}
	return converter.AttachmentToResponse(attachment, url), nil
}

func (u *medicalRecordUsecase) ListAttachments(ctx context.Context, actor Actor, recordID string) ([]dto.AttachmentResponse, error) {
	if u.objectStorage == nil {
		return nil, ErrStorageUnavailable
	}

	db := u.db.WithContext(ctx)
	record, err := u.findRecord(db, recordID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, &record.Patient) {
		return nil, ErrForbidden
	}

	attachments, err := u.recordRepo.FindAttachments(db, record.ID)
	if err != nil {
		u.log.Warnf("Failed to find attachments: %+v", err)
		return nil, err
	}

	responses := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		url, err := u.objectStorage.PresignGet(ctx, attachments[i].ObjectKey, attachmentURLExpiry)
		if err != nil {
			u.log.Warnf("Failed to presign attachment %s: %+v", attachments[i].ID, err)
			url = ""
		}
		responses = append(responses, *converter.AttachmentToResponse(&attachments[i], url))
	}
	return responses, nil
}
