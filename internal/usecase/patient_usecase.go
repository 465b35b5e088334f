package usecase

import (
	"context"
	"errors"
	"strings"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"
	"hospital-management/pkg/idgen"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound        = errors.New("patient not found")
	ErrPatientProfileNotFound = errors.New("patient profile not found for this account")
	ErrPatientHasAppointments = errors.New("patient still has appointments")
	ErrDateOfBirthInFuture    = errors.New("date_of_birth must not be in the future")
)

type PatientUsecase interface {
	ListPatients(ctx context.Context, search string, page entity.Pagination) ([]dto.PatientResponse, int64, error)
	GetPatient(ctx context.Context, id string) (*dto.PatientResponse, error)
	GetMyProfile(ctx context.Context, actor Actor) (*dto.PatientResponse, error)
	CreatePatient(ctx context.Context, actor Actor, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, actor Actor, id string, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	UpdateMyProfile(ctx context.Context, actor Actor, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, actor Actor, id string) error
}

type patientUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	sequenceRepo    repository.SequenceRepository
	auditService    service.AuditService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	sequenceRepo repository.SequenceRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		sequenceRepo:    sequenceRepo,
		auditService:    auditService,
	}
}

func (u *patientUsecase) ListPatients(ctx context.Context, search string, page entity.Pagination) ([]dto.PatientResponse, int64, error) {
	filter := entity.PatientFilter{Search: strings.TrimSpace(search)}
	patients, total, err := u.patientRepo.FindAll(u.db.WithContext(ctx), filter, page)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, 0, err
	}
	return converter.PatientsToResponses(patients), total, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id string) (*dto.PatientResponse, error) {
	patient, err := findPatient(u.db.WithContext(ctx), u.log, u.patientRepo, id)
	if err != nil {
		return nil, err
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetMyProfile(ctx context.Context, actor Actor) (*dto.PatientResponse, error) {
	patient, err := findPatientByUser(u.db.WithContext(ctx), u.log, u.patientRepo, actor.UserID)
	if err != nil {
		return nil, err
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) CreatePatient(ctx context.Context, actor Actor, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := registerPatient(tx, u.patientRepo, u.sequenceRepo, req)
	if err != nil {
		if !errors.Is(err, ErrInvalidDateFormat) && !errors.Is(err, ErrDateOfBirthInFuture) {
			u.log.Warnf("Failed to create patient: %+v", err)
		}
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, actor.ref(), entity.AuditActionPatientCreate, "patient", patient.ID, patient)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

// registerPatient inserts a patient without a portal account inside tx.
func registerPatient(tx *gorm.DB, patientRepo repository.PatientRepository, sequenceRepo repository.SequenceRepository, req *dto.CreatePatientRequest) (*entity.Patient, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if dob.After(today()) {
		return nil, ErrDateOfBirthInFuture
	}

	patientID, err := nextID(tx, sequenceRepo, idgen.KindPatient, "")
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		ID:                    patientID,
		FullName:              strings.TrimSpace(req.FullName),
		DateOfBirth:           dob,
		Gender:                req.Gender,
		BloodType:             req.BloodType,
		Phone:                 req.Phone,
		Email:                 strings.ToLower(req.Email),
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		Allergies:             req.Allergies,
	}
	if err := patientRepo.Create(tx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, actor Actor, id string, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := findPatient(tx, u.log, u.patientRepo, id)
	if err != nil {
		return nil, err
	}

	return u.applyUpdate(ctx, tx, actor, patient, req)
}

func (u *patientUsecase) UpdateMyProfile(ctx context.Context, actor Actor, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := findPatientByUser(tx, u.log, u.patientRepo, actor.UserID)
	if err != nil {
		return nil, err
	}

	return u.applyUpdate(ctx, tx, actor, patient, req)
}

func (u *patientUsecase) applyUpdate(ctx context.Context, tx *gorm.DB, actor Actor, patient *entity.Patient, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	before := *patient

	if req.FullName != "" {
		patient.FullName = strings.TrimSpace(req.FullName)
	}
	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		if dob.After(today()) {
			return nil, ErrDateOfBirthInFuture
		}
		patient.DateOfBirth = dob
	}
	if req.Gender != "" {
		patient.Gender = req.Gender
	}
	if req.BloodType != nil {
		patient.BloodType = *req.BloodType
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = strings.ToLower(*req.Email)
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.EmergencyContactName != nil {
		patient.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		patient.EmergencyContactPhone = *req.EmergencyContactPhone
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}

	if err := u.patientRepo.Update(tx, patient); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, actor.ref(), entity.AuditActionPatientUpdate, "patient", patient.ID, before, patient)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) DeletePatient(ctx context.Context, actor Actor, id string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := findPatient(tx, u.log, u.patientRepo, id)
	if err != nil {
		return err
	}

	appointments, err := u.appointmentRepo.CountByPatient(tx, id)
	if err != nil {
		u.log.Warnf("Failed to count patient appointments: %+v", err)
		return err
	}
	if appointments > 0 {
		return ErrPatientHasAppointments
	}

	if _, err := u.patientRepo.Delete(tx, id); err != nil {
		if isForeignKeyError(err, "patient") {
			return ErrPatientHasAppointments
		}
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}
	if patient.UserID != nil {
		if _, err := u.userRepo.Delete(tx, *patient.UserID); err != nil {
			u.log.Warnf("Failed to delete patient user: %+v", err)
			return err
		}
	}

	u.auditService.LogDelete(ctx, tx, actor.ref(), entity.AuditActionPatientDelete, "patient", id, patient)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func findPatient(db *gorm.DB, log *logrus.Logger, patientRepo repository.PatientRepository, id string) (*entity.Patient, error) {
	patient, err := patientRepo.FindByID(db, id)
	if err != nil {
		log.Warnf("Failed to find patient by ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func findPatientByUser(db *gorm.DB, log *logrus.Logger, patientRepo repository.PatientRepository, userID uuid.UUID) (*entity.Patient, error) {
	patient, err := patientRepo.FindByUserID(db, userID)
	if err != nil {
		log.Warnf("Failed to find patient by user ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientProfileNotFound
	}
	return patient, nil
}
