package usecase

import (
	"context"
	"errors"
	"strings"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/infrastructure/cache"
	"hospital-management/internal/service"
	"hospital-management/pkg/idgen"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrDoctorProfileNotFound  = errors.New("doctor profile not found for this account")
	ErrLicenseAlreadyExists   = errors.New("license number already exists")
	ErrDoctorHasAppointments  = errors.New("doctor still has appointments")
	ErrDoctorUnavailable      = errors.New("doctor is not available")
	ErrInvalidConsultationFee = errors.New("consultation_fee must not be negative")
	ErrScheduleNotFound       = errors.New("schedule not found")
	ErrScheduleOverlap        = errors.New("schedule overlaps an existing schedule")
	ErrInvalidScheduleRange   = errors.New("end_time must be after start_time")
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, query dto.DoctorListQuery) ([]dto.DoctorResponse, int64, error)
	GetDoctor(ctx context.Context, id string) (*dto.DoctorResponse, error)
	GetMyProfile(ctx context.Context, actor Actor) (*dto.DoctorResponse, error)
	CreateDoctor(ctx context.Context, actor Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, actor Actor, id string, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateMyProfile(ctx context.Context, actor Actor, req *dto.UpdateMyDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, actor Actor, id string) error

	ListSchedules(ctx context.Context, doctorID string) ([]dto.ScheduleResponse, error)
	CreateSchedule(ctx context.Context, actor Actor, doctorID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, actor Actor, doctorID string, scheduleID int) error
	GetAvailability(ctx context.Context, doctorID string, date string) (*dto.AvailabilityResponse, error)
}

type doctorUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	doctorRepo      repository.DoctorRepository
	scheduleRepo    repository.DoctorScheduleRepository
	departmentRepo  repository.DepartmentRepository
	specialtyRepo   repository.SpecialtyRepository
	appointmentRepo repository.AppointmentRepository
	sequenceRepo    repository.SequenceRepository
	auditService    service.AuditService
	tokenStore      cache.TokenStore
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	departmentRepo repository.DepartmentRepository,
	specialtyRepo repository.SpecialtyRepository,
	appointmentRepo repository.AppointmentRepository,
	sequenceRepo repository.SequenceRepository,
	auditService service.AuditService,
	tokenStore cache.TokenStore,
) DoctorUsecase {
	return &doctorUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		doctorRepo:      doctorRepo,
		scheduleRepo:    scheduleRepo,
		departmentRepo:  departmentRepo,
		specialtyRepo:   specialtyRepo,
		appointmentRepo: appointmentRepo,
		sequenceRepo:    sequenceRepo,
		auditService:    auditService,
		tokenStore:      tokenStore,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, query dto.DoctorListQuery) ([]dto.DoctorResponse, int64, error) {
	departmentID, err := parseUUIDPtr(query.DepartmentID)
	if err != nil {
		return nil, 0, ErrInvalidDepartmentQuery
	}
	specialtyID, err := parseUUIDPtr(query.SpecialtyID)
	if err != nil {
		return nil, 0, ErrSpecialtyNotFound
	}

	filter := entity.DoctorFilter{
		DepartmentID: departmentID,
		SpecialtyID:  specialtyID,
		Search:       strings.TrimSpace(query.Search),
		Available:    query.Available,
	}
	doctors, total, err := u.doctorRepo.FindAll(u.db.WithContext(ctx), filter, entity.Pagination{Page: query.Page, Limit: query.Limit})
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, 0, err
	}

	return converter.DoctorsToResponses(doctors), total, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id string) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetMyProfile(ctx context.Context, actor Actor) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by user ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) findDoctor(db *gorm.DB, id string) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, actor Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return nil, ErrInvalidDepartmentQuery
	}
	fee := decimal.Zero
	if req.ConsultationFee != nil {
		fee = *req.ConsultationFee
	}
	if fee.IsNegative() {
		return nil, ErrInvalidConsultationFee
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	department, err := u.departmentRepo.FindByID(tx, departmentID)
	if err != nil {
		u.log.Warnf("Failed to find department by ID: %+v", err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}
	if !department.Active() {
		return nil, ErrDepartmentInactive
	}

	specialty, err := u.resolveSpecialty(tx, departmentID, req.SpecialtyID)
	if err != nil {
		return nil, err
	}

	existingUser, err := u.userRepo.FindByEmail(tx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrEmailAlreadyExists
	}

	existingDoctor, err := u.doctorRepo.FindByLicense(tx, req.LicenseNumber)
	if err != nil {
		u.log.Warnf("Failed to find doctor by license: %+v", err)
		return nil, err
	}
	if existingDoctor != nil {
		return nil, ErrLicenseAlreadyExists
	}

	user := &entity.User{
		Email:    req.Email,
		Password: hashedPassword,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    req.Phone,
		RoleID:   entity.RoleIDDoctor,
	}
	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	doctorID, err := nextID(tx, u.sequenceRepo, idgen.KindDoctor, department.Code)
	if err != nil {
		u.log.Warnf("Failed to generate doctor ID: %+v", err)
		return nil, err
	}

	doctor := &entity.Doctor{
		ID:                doctorID,
		UserID:            user.ID,
		DepartmentID:      department.ID,
		LicenseNumber:     req.LicenseNumber,
		YearsOfExperience: req.YearsOfExperience,
		ConsultationFee:   fee,
		Bio:               req.Bio,
		IsAvailable:       entity.BoolPtr(true),
	}
	if specialty != nil {
		doctor.SpecialtyID = &specialty.ID
	}
	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, actor.ref(), entity.AuditActionDoctorCreate, "doctor", doctor.ID, doctor)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	doctor.User = *user
	doctor.Department = *department
	doctor.Specialty = specialty
	return converter.DoctorToResponse(doctor), nil
}

// resolveSpecialty loads an optional specialty and checks it belongs to the department.
func (u *doctorUsecase) resolveSpecialty(db *gorm.DB, departmentID uuid.UUID, rawID string) (*entity.Specialty, error) {
	if rawID == "" {
		return nil, nil
	}
	specialtyID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrSpecialtyNotFound
	}

	specialty, err := u.specialtyRepo.FindByID(db, specialtyID)
	if err != nil {
		u.log.Warnf("Failed to find specialty by ID: %+v", err)
		return nil, err
	}
	if specialty == nil {
		return nil, ErrSpecialtyNotFound
	}
	if specialty.DepartmentID != departmentID {
		return nil, ErrSpecialtyNotInDept
	}
	return specialty, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, actor Actor, id string, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if req.ConsultationFee != nil && req.ConsultationFee.IsNegative() {
		return nil, ErrInvalidConsultationFee
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.findDoctor(tx, id)
	if err != nil {
		return nil, err
	}
	before := *doctor

	if req.SpecialtyID != nil {
		specialty, err := u.resolveSpecialty(tx, doctor.DepartmentID, *req.SpecialtyID)
		if err != nil {
			return nil, err
		}
		doctor.Specialty = specialty
		doctor.SpecialtyID = nil
		if specialty != nil {
			doctor.SpecialtyID = &specialty.ID
		}
	}
	if req.LicenseNumber != "" && req.LicenseNumber != doctor.LicenseNumber {
		existing, err := u.doctorRepo.FindByLicense(tx, req.LicenseNumber)
		if err != nil {
			u.log.Warnf("Failed to find doctor by license: %+v", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrLicenseAlreadyExists
		}
		doctor.LicenseNumber = req.LicenseNumber
	}
	if req.YearsOfExperience != nil {
		doctor.YearsOfExperience = *req.YearsOfExperience
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.IsAvailable != nil {
		doctor.IsAvailable = entity.BoolPtr(*req.IsAvailable)
	}

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	if req.FullName != "" || req.Phone != nil || req.IsActive != nil {
		user := &doctor.User
		if req.FullName != "" {
			user.FullName = strings.TrimSpace(req.FullName)
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.IsActive != nil {
			user.IsActive = entity.BoolPtr(*req.IsActive)
		}
		if err := u.userRepo.Update(tx, user); err != nil {
			u.log.Warnf("Failed to update doctor user: %+v", err)
			return nil, err
		}
	}

	u.auditService.LogUpdate(ctx, tx, actor.ref(), entity.AuditActionDoctorUpdate, "doctor", doctor.ID, before, doctor)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) UpdateMyProfile(ctx context.Context, actor Actor, req *dto.UpdateMyDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByUserID(tx, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by user ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}
	before := *doctor

	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.IsAvailable != nil {
		doctor.IsAvailable = entity.BoolPtr(*req.IsAvailable)
	}
	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	if req.Phone != nil {
		doctor.User.Phone = *req.Phone
		if err := u.userRepo.Update(tx, &doctor.User); err != nil {
			u.log.Warnf("Failed to update doctor user: %+v", err)
			return nil, err
		}
	}

	u.auditService.LogUpdate(ctx, tx, actor.ref(), entity.AuditActionDoctorUpdate, "doctor", doctor.ID, before, doctor)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// DeleteDoctor removes the doctor, its schedules and its login. Doctors with
// appointment history are kept; deactivate them instead.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, actor Actor, id string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.findDoctor(tx, id)
	if err != nil {
		return err
	}

	appointments, err := u.appointmentRepo.CountByDoctor(tx, id)
	if err != nil {
		u.log.Warnf("Failed to count doctor appointments: %+v", err)
		return err
	}
	if appointments > 0 {
		return ErrDoctorHasAppointments
	}

	if err := u.scheduleRepo.DeleteByDoctorID(tx, id); err != nil {
		u.log.Warnf("Failed to delete doctor schedules: %+v", err)
		return err
	}
	if _, err := u.doctorRepo.Delete(tx, id); err != nil {
		if isForeignKeyError(err, "doctor") {
			return ErrDoctorHasAppointments
		}
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}
	if _, err := u.userRepo.Delete(tx, doctor.UserID); err != nil {
		u.log.Warnf("Failed to delete doctor user: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, actor.ref(), entity.AuditActionDoctorDelete, "doctor", id, doctor)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	// The account is gone; its sessions must not outlive it.
	if u.tokenStore != nil {
		if err := u.tokenStore.RevokeAll(ctx, doctor.UserID); err != nil {
			u.log.Warnf("Failed to revoke tokens of deleted doctor: %+v", err)
			return err
		}
	}

	return nil
}

func (u *doctorUsecase) ListSchedules(ctx context.Context, doctorID string) ([]dto.ScheduleResponse, error) {
	db := u.db.WithContext(ctx)
	if _, err := u.findDoctor(db, doctorID); err != nil {
		return nil, err
	}

	schedules, err := u.scheduleRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedules: %+v", err)
		return nil, err
	}
	return converter.SchedulesToResponses(schedules), nil
}

// canManageSchedule allows admins and the doctor themself.
func canManageSchedule(actor Actor, doctor *entity.Doctor) bool {
	return actor.IsAdmin() || (actor.RoleID == entity.RoleIDDoctor && doctor.UserID == actor.UserID)
}

func (u *doctorUsecase) CreateSchedule(ctx context.Context, actor Actor, doctorID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	if req.EndTime <= req.StartTime {
		return nil, ErrInvalidScheduleRange
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.findDoctor(tx, doctorID)
	if err != nil {
		return nil, err
	}
	if !canManageSchedule(actor, doctor) {
		return nil, ErrForbidden
	}

	slotMinutes := req.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = entity.DefaultSlotMinutes
	}
	schedule := &entity.DoctorSchedule{
		DoctorID:    doctorID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		SlotMinutes: slotMinutes,
	}

	existing, err := u.scheduleRepo.FindByDoctorAndDay(tx, doctorID, schedule.DayOfWeek)
	if err != nil {
		u.log.Warnf("Failed to find schedules: %+v", err)
		return nil, err
	}
	for _, other := range existing {
		if schedule.Overlaps(other) {
			return nil, ErrScheduleOverlap
		}
	}

	if err := u.scheduleRepo.Create(tx, schedule); err != nil {
		u.log.Warnf("Failed to create schedule: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, actor.ref(), entity.AuditActionScheduleCreate, "doctor_schedule", doctorID, schedule)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *doctorUsecase) DeleteSchedule(ctx context.Context, actor Actor, doctorID string, scheduleID int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.findDoctor(tx, doctorID)
	if err != nil {
		return err
	}
	if !canManageSchedule(actor, doctor) {
		return ErrForbidden
	}

	schedule, err := u.scheduleRepo.FindByID(tx, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule by ID: %+v", err)
		return err
	}
	if schedule == nil || schedule.DoctorID != doctorID {
		return ErrScheduleNotFound
	}

	if _, err := u.scheduleRepo.Delete(tx, scheduleID); err != nil {
		u.log.Warnf("Failed to delete schedule: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, actor.ref(), entity.AuditActionScheduleDelete, "doctor_schedule", doctorID, schedule)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *doctorUsecase) GetAvailability(ctx context.Context, doctorID string, date string) (*dto.AvailabilityResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	doctor, err := u.findDoctor(db, doctorID)
	if err != nil {
		return nil, err
	}

	schedules, err := u.scheduleRepo.FindByDoctorAndDay(db, doctorID, int(day.Weekday()))
	if err != nil {
		u.log.Warnf("Failed to find schedules: %+v", err)
		return nil, err
	}

	booked, err := u.appointmentRepo.FindBookedTimes(db, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find booked times: %+v", err)
		return nil, err
	}

	slots := daySlots(schedules, booked, day, now())
	if !doctor.Available() {
		for i := range slots {
			slots[i].Available = false
		}
	}

	return &dto.AvailabilityResponse{
		DoctorID:  doctorID,
		Date:      day.Format("2006-01-02"),
		DayOfWeek: int(day.Weekday()),
		Slots:     slots,
	}, nil
}
