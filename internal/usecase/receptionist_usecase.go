package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"
	"hospital-management/pkg/idgen"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrCheckInNotToday       = errors.New("only today's appointments can be checked in")
	ErrCheckInNotAllowed     = errors.New("only scheduled or confirmed appointments can be checked in")
	ErrWalkInPatientRequired = errors.New("patient_id or patient is required")
	ErrNoSlotAvailable       = errors.New("no free slot left today for this doctor")
)

type ReceptionistUsecase interface {
	CreateReceptionist(ctx context.Context, actor Actor, req *dto.CreateReceptionistRequest) (*dto.ReceptionistResponse, error)
	ListReceptionists(ctx context.Context) ([]dto.ReceptionistResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Queue(ctx context.Context, date string, departmentID string) ([]dto.AppointmentResponse, error)
	CheckIn(ctx context.Context, actor Actor, appointmentID string) (*dto.AppointmentResponse, error)
	WalkIn(ctx context.Context, actor Actor, req *dto.WalkInRequest) (*dto.WalkInResponse, error)
}

type receptionistUsecase struct {
	booker
	db               *gorm.DB
	userRepo         repository.UserRepository
	receptionistRepo repository.ReceptionistRepository
	departmentRepo   repository.DepartmentRepository
	patientRepo      repository.PatientRepository
	doctorRepo       repository.DoctorRepository
	paymentRepo      repository.PaymentRepository
	auditService     service.AuditService
}

func NewReceptionistUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	receptionistRepo repository.ReceptionistRepository,
	departmentRepo repository.DepartmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	paymentRepo repository.PaymentRepository,
	sequenceRepo repository.SequenceRepository,
	auditService service.AuditService,
	publisher service.NotificationPublisher,
) ReceptionistUsecase {
	return &receptionistUsecase{
		booker: booker{
			log:             log,
			appointmentRepo: appointmentRepo,
			scheduleRepo:    scheduleRepo,
			sequenceRepo:    sequenceRepo,
			publisher:       publisher,
		},
		db:               db,
		userRepo:         userRepo,
		receptionistRepo: receptionistRepo,
		departmentRepo:   departmentRepo,
		patientRepo:      patientRepo,
		doctorRepo:       doctorRepo,
		paymentRepo:      paymentRepo,
		auditService:     auditService,
	}
}

func (u *receptionistUsecase) CreateReceptionist(ctx context.Context, actor Actor, req *dto.CreateReceptionistRequest) (*dto.ReceptionistResponse, error) {
	departmentID, err := parseUUIDPtr(req.DepartmentID)
	if err != nil {
		return nil, ErrInvalidDepartmentQuery
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	var department *entity.Department
	if departmentID != nil {
		department, err = u.departmentRepo.FindByID(tx, *departmentID)
		if err != nil {
			u.log.Warnf("Failed to find department by ID: %+v", err)
			return nil, err
		}
		if department == nil {
			return nil, ErrDepartmentNotFound
		}
	}

	existingUser, err := u.userRepo.FindByEmail(tx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrEmailAlreadyExists
	}

	user := &entity.User{
		Email:    req.Email,
		Password: hashedPassword,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    req.Phone,
		RoleID:   entity.RoleIDReceptionist,
	}
	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	receptionistID, err := nextID(tx, u.sequenceRepo, idgen.KindReceptionist, "")
	if err != nil {
		u.log.Warnf("Failed to generate receptionist ID: %+v", err)
		return nil, err
	}

	shift := req.Shift
	if shift == "" {
		shift = entity.ShiftMorning
	}

	receptionist := &entity.Receptionist{
		ID:           receptionistID,
		UserID:       user.ID,
		DepartmentID: departmentID,
		Shift:        shift,
	}
	if err := u.receptionistRepo.Create(tx, receptionist); err != nil {
		u.log.Warnf("Failed to create receptionist: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, actor.ref(), entity.AuditActionReceptionistCreate, "receptionist", receptionist.ID, receptionist)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	receptionist.User = *user
	receptionist.Department = department
	return converter.ReceptionistToResponse(receptionist), nil
}

func (u *receptionistUsecase) ListReceptionists(ctx context.Context) ([]dto.ReceptionistResponse, error) {
	receptionists, err := u.receptionistRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find receptionists: %+v", err)
		return nil, err
	}
	return converter.ReceptionistsToResponses(receptionists), nil
}

// Dashboard summarises the current clinic day.
func (u *receptionistUsecase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	db := u.db.WithContext(ctx)
	day := today()
	next := day.AddDate(0, 0, 1)

	counts, err := u.appointmentRepo.CountByStatus(db, day)
	if err != nil {
		u.log.Warnf("Failed to count appointments: %+v", err)
		return nil, err
	}

	byStatus := make(map[string]int64, len(entity.AppointmentStatuses))
	var total int64
	for _, status := range entity.AppointmentStatuses {
		byStatus[string(status)] = counts[status]
		total += counts[status]
	}

	newPatients, err := u.patientRepo.CountCreatedBetween(db, day, next)
	if err != nil {
		u.log.Warnf("Failed to count new patients: %+v", err)
		return nil, err
	}

	revenue, paid, err := u.paymentRepo.SumByStatus(db, entity.PaymentStatusPaid, &day, &next)
	if err != nil {
		u.log.Warnf("Failed to sum revenue: %+v", err)
		return nil, err
	}

	queue, err := u.appointmentRepo.FindQueue(db, day, nil)
	if err != nil {
		u.log.Warnf("Failed to find queue: %+v", err)
		return nil, err
	}

	return &dto.DashboardResponse{
		Date:              day.Format("2006-01-02"),
		TotalAppointments: total,
		ByStatus:          byStatus,
		NewPatients:       newPatients,
		Revenue:           revenue,
		PaidPayments:      paid,
		QueueLength:       len(queue),
	}, nil
}

func (u *receptionistUsecase) Queue(ctx context.Context, date string, departmentID string) ([]dto.AppointmentResponse, error) {
	day := today()
	if date != "" {
		d, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		day = d
	}

	deptID, err := parseUUIDPtr(departmentID)
	if err != nil {
		return nil, ErrInvalidDepartmentQuery
	}

	appointments, err := u.appointmentRepo.FindQueue(u.db.WithContext(ctx), day, deptID)
	if err != nil {
		u.log.Warnf("Failed to find queue: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *receptionistUsecase) CheckIn(ctx context.Context, actor Actor, appointmentID string) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !entity.DateOnly(appointment.AppointmentDate).Equal(today()) {
		return nil, ErrCheckInNotToday
	}
	if appointment.Status != entity.AppointmentStatusScheduled && appointment.Status != entity.AppointmentStatusConfirmed {
		return nil, ErrCheckInNotAllowed
	}

	before := appointment.Status
	if err := u.assignQueue(tx, appointment); err != nil {
		return nil, err
	}
	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to check in appointment: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, actor.ref(), entity.AuditActionAppointmentCheckIn, "appointment", appointment.ID, before, appointment.Status)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notify(ctx, appointment, "Checked in",
		fmt.Sprintf("Appointment %s is checked in with queue number %d.", appointment.ID, *appointment.QueueNumber))

	return converter.AppointmentToResponse(appointment), nil
}

// WalkIn books the earliest free slot of today and checks the patient in
// straight away.
func (u *receptionistUsecase) WalkIn(ctx context.Context, actor Actor, req *dto.WalkInRequest) (*dto.WalkInResponse, error) {
	if req.PatientID == "" && req.Patient == nil {
		return nil, ErrWalkInPatientRequired
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.Available() {
		return nil, ErrDoctorUnavailable
	}

	var patient *entity.Patient
	if req.PatientID != "" {
		patient, err = findPatient(tx, u.log, u.patientRepo, req.PatientID)
	} else {
		patient, err = registerPatient(tx, u.patientRepo, u.sequenceRepo, req.Patient)
		if err == nil {
			u.auditService.LogCreate(ctx, tx, actor.ref(), entity.AuditActionPatientCreate, "patient", patient.ID, patient)
		}
	}
	if err != nil {
		return nil, err
	}

	day := today()
	schedules, err := u.scheduleRepo.FindByDoctorAndDay(tx, doctor.ID, int(day.Weekday()))
	if err != nil {
		u.log.Warnf("Failed to find schedules: %+v", err)
		return nil, err
	}
	booked, err := u.appointmentRepo.FindBookedTimes(tx, doctor.ID, day)
	if err != nil {
		u.log.Warnf("Failed to find booked times: %+v", err)
		return nil, err
	}

	clock, err := u.walkInSlot(tx, patient.ID, day, freeSlots(daySlots(schedules, booked, day, now())))
	if err != nil {
		return nil, err
	}
	if err := u.checkSlot(tx, doctor, patient.ID, day, clock, ""); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		DepartmentID:    doctor.DepartmentID,
		AppointmentDate: day,
		AppointmentTime: clock,
		Type:            entity.AppointmentTypeWalkIn,
		Reason:          req.Reason,
		CreatedBy:       actor.ref(),
	}
	if err := u.assignQueue(tx, appointment); err != nil {
		return nil, err
	}
	if err := u.insert(tx, appointment, doctor.Department.Code); err != nil {
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, actor.ref(), entity.AuditActionAppointmentCreate, "appointment", appointment.ID, appointment)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Patient = *patient
	appointment.Doctor = *doctor
	appointment.Department = doctor.Department

	u.notify(ctx, appointment, "Walk-in registered",
		fmt.Sprintf("Walk-in appointment %s at %s, queue number %d.", appointment.ID, clock, *appointment.QueueNumber))

	return &dto.WalkInResponse{
		Patient:     *converter.PatientToResponse(patient),
		Appointment: *converter.AppointmentToResponse(appointment),
	}, nil
}

// walkInSlot picks the earliest open slot the patient is not already booked
// at with another doctor.
func (u *receptionistUsecase) walkInSlot(tx *gorm.DB, patientID string, day time.Time, open []string) (string, error) {
	for _, clock := range open {
		clash, err := u.appointmentRepo.FindActiveByPatientSlot(tx, patientID, day, clock, "")
		if err != nil {
			u.log.Warnf("Failed to check patient slot: %+v", err)
			return "", err
		}
		if clash == nil {
			return clock, nil
		}
	}
	return "", ErrNoSlotAvailable
}
