package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

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
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSlotTaken               = errors.New("doctor already has an appointment at this time")
	ErrPatientDoubleBooked     = errors.New("patient already has an appointment at this time")
	ErrAppointmentInPast       = errors.New("appointment must not be in the past")
	ErrNotInSchedule           = errors.New("time is not a slot of the doctor's schedule")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrNotReschedulable        = errors.New("only scheduled or confirmed appointments can be rescheduled")
	ErrNotCancellable          = errors.New("appointment can no longer be cancelled")
	ErrPatientIDRequired       = errors.New("patient_id is required")
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, actor Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, actor Actor, query dto.AppointmentListQuery) ([]dto.AppointmentResponse, int64, error)
	GetAppointment(ctx context.Context, actor Actor, id string) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, actor Actor, id string, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, actor Actor, id string, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
}

// booker holds the slot rules shared by regular booking and walk-ins.
type booker struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	scheduleRepo    repository.DoctorScheduleRepository
	sequenceRepo    repository.SequenceRepository
	publisher       service.NotificationPublisher
}

// checkSlot verifies that doctor can see patientID at date and clock.
// excludeID skips the appointment being moved.
func (b *booker) checkSlot(tx *gorm.DB, doctor *entity.Doctor, patientID string, date time.Time, clock, excludeID string) error {
	current := now()
	if date.Before(entity.DateOnly(current)) {
		return ErrAppointmentInPast
	}
	if date.Equal(entity.DateOnly(current)) && clock <= entity.FormatClock(current.Hour()*60+current.Minute()) {
		return ErrAppointmentInPast
	}
	if !doctor.Available() {
		return ErrDoctorUnavailable
	}

	schedules, err := b.scheduleRepo.FindByDoctorAndDay(tx, doctor.ID, int(date.Weekday()))
	if err != nil {
		b.log.Warnf("Failed to find schedules: %+v", err)
		return err
	}
	if !scheduleHasSlot(schedules, clock) {
		return ErrNotInSchedule
	}

	taken, err := b.appointmentRepo.FindActiveByDoctorSlot(tx, doctor.ID, date, clock, excludeID)
	if err != nil {
		b.log.Warnf("Failed to check doctor slot: %+v", err)
		return err
	}
	if taken != nil {
		return ErrSlotTaken
	}

	clash, err := b.appointmentRepo.FindActiveByPatientSlot(tx, patientID, date, clock, excludeID)
	if err != nil {
		b.log.Warnf("Failed to check patient slot: %+v", err)
		return err
	}
	if clash != nil {
		return ErrPatientDoubleBooked
	}
	return nil
}

// insert allocates a department coded ID and stores the appointment.
func (b *booker) insert(tx *gorm.DB, appointment *entity.Appointment, deptCode string) error {
	id, err := nextID(tx, b.sequenceRepo, idgen.KindAppointment, deptCode)
	if err != nil {
		b.log.Warnf("Failed to allocate appointment ID: %+v", err)
		return err
	}
	appointment.ID = id

	if err := b.appointmentRepo.Create(tx, appointment); err != nil {
		if conflict := slotConflict(err); conflict != nil {
			return conflict
		}
		b.log.Warnf("Failed to create appointment: %+v", err)
		return err
	}
	return nil
}

// slotConflict maps a lost race on the slot indexes to the error the
// pre-check would have returned.
func slotConflict(err error) error {
	switch {
	case isDuplicateKeyError(err, "doctor_slot"):
		return ErrSlotTaken
	case isDuplicateKeyError(err, "patient_slot"):
		return ErrPatientDoubleBooked
	}
	return nil
}

// notify tells the patient and the doctor about a change. Delivery problems
// are logged; the appointment change is already committed.
func (b *booker) notify(ctx context.Context, appointment *entity.Appointment, title, message string) {
	if b.publisher == nil {
		return
	}

	event := service.NewEvent(
		entity.NotificationTypeAppointment,
		title,
		message,
		map[string]interface{}{
			"appointment_id":   appointment.ID,
			"appointment_date": appointment.AppointmentDate.Format("2006-01-02"),
			"appointment_time": appointment.AppointmentTime,
			"status":           string(appointment.Status),
		},
		appointment.Patient.UserID,
		userRef(appointment.Doctor.UserID),
	)
	if err := b.publisher.Publish(ctx, event); err != nil {
		b.log.Warnf("Failed to publish notification for appointment %s: %+v", appointment.ID, err)
	}
}

func userRef(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// assignQueue checks the appointment in with the next queue number of its
// doctor and day.
func (b *booker) assignQueue(tx *gorm.DB, appointment *entity.Appointment) error {
	last, err := b.appointmentRepo.MaxQueueNumber(tx, appointment.DoctorID, appointment.AppointmentDate)
	if err != nil {
		b.log.Warnf("Failed to find queue number: %+v", err)
		return err
	}
	queue := last + 1
	checkedIn := now()
	appointment.Status = entity.AppointmentStatusCheckedIn
	appointment.QueueNumber = &queue
	appointment.CheckedInAt = &checkedIn
	return nil
}

type appointmentUsecase struct {
	booker
	db           *gorm.DB
	patientRepo  repository.PatientRepository
	doctorRepo   repository.DoctorRepository
	roomRepo     repository.RoomRepository
	auditService service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	roomRepo repository.RoomRepository,
	sequenceRepo repository.SequenceRepository,
	auditService service.AuditService,
	publisher service.NotificationPublisher,
) AppointmentUsecase {
	return &appointmentUsecase{
		booker: booker{
			log:             log,
			appointmentRepo: appointmentRepo,
			scheduleRepo:    scheduleRepo,
			sequenceRepo:    sequenceRepo,
			publisher:       publisher,
		},
		db:           db,
		patientRepo:  patientRepo,
		doctorRepo:   doctorRepo,
		roomRepo:     roomRepo,
		auditService: auditService,
	}
}

func (u *appointmentUsecase) findDoctor(db *gorm.DB, id string) (*entity.Doctor, error) {
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

// bookingPatient resolves who the appointment is for: patients always book
// for themselves, front desk staff name the patient.
func (u *appointmentUsecase) bookingPatient(db *gorm.DB, actor Actor, patientID string) (*entity.Patient, error) {
	switch {
	case actor.RoleID == entity.RoleIDPatient:
		return findPatientByUser(db, u.log, u.patientRepo, actor.UserID)
	case actor.IsFrontDesk():
		if patientID == "" {
			return nil, ErrPatientIDRequired
		}
		return findPatient(db, u.log, u.patientRepo, patientID)
	default:
		return nil, ErrForbidden
	}
}

func (u *appointmentUsecase) CreateAppointment(ctx context.Context, actor Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := parseDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.bookingPatient(tx, actor, req.PatientID)
	if err != nil {
		return nil, err
	}

	doctor, err := u.findDoctor(tx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	if err := u.checkSlot(tx, doctor, patient.ID, date, req.AppointmentTime, ""); err != nil {
		return nil, err
	}

	var room *entity.Room
	if req.RoomID != "" {
		roomID, err := uuid.Parse(req.RoomID)
		if err != nil {
			return nil, ErrRoomNotFound
		}
		room, err = u.roomRepo.FindByID(tx, roomID)
		if err != nil {
			u.log.Warnf("Failed to find room by ID: %+v", err)
			return nil, err
		}
		if room == nil {
			return nil, ErrRoomNotFound
		}
	}

	appointmentType := req.Type
	if appointmentType == "" {
		appointmentType = entity.AppointmentTypeConsultation
	}

	appointment := &entity.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		DepartmentID:    doctor.DepartmentID,
		AppointmentDate: date,
		AppointmentTime: req.AppointmentTime,
		Type:            appointmentType,
		Reason:          req.Reason,
		Status:          entity.AppointmentStatusScheduled,
		CreatedBy:       actor.ref(),
	}
	if room != nil {
		appointment.RoomID = &room.ID
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
	appointment.Room = room

	u.notify(ctx, appointment, "Appointment booked",
		fmt.Sprintf("Appointment %s on %s at %s has been booked.", appointment.ID, req.AppointmentDate, appointment.AppointmentTime))

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, actor Actor, query dto.AppointmentListQuery) ([]dto.AppointmentResponse, int64, error) {
	from, to, err := parseDateRange(query.DateFrom, query.DateTo)
	if err != nil {
		return nil, 0, err
	}

	db := u.db.WithContext(ctx)
	filter := entity.AppointmentFilter{
		Status:    entity.AppointmentStatus(query.Status),
		DoctorID:  query.DoctorID,
		PatientID: query.PatientID,
		DateFrom:  from,
		DateTo:    to,
	}

	switch actor.RoleID {
	case entity.RoleIDPatient:
		patient, err := findPatientByUser(db, u.log, u.patientRepo, actor.UserID)
		if err != nil {
			return nil, 0, err
		}
		filter.PatientID = patient.ID
	case entity.RoleIDDoctor:
		doctor, err := u.doctorRepo.FindByUserID(db, actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor by user ID: %+v", err)
			return nil, 0, err
		}
		if doctor == nil {
			return nil, 0, ErrDoctorProfileNotFound
		}
		filter.DoctorID = doctor.ID
	}

	page := entity.Pagination{Page: query.Page, Limit: query.Limit}
	appointments, total, err := u.appointmentRepo.FindAll(db, filter, page)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, 0, err
	}
	return converter.AppointmentsToResponses(appointments), total, nil
}

// canAccessAppointment lets front desk staff see everything, and patients
// and doctors only the appointments they take part in.
func canAccessAppointment(actor Actor, appointment *entity.Appointment) bool {
	switch actor.RoleID {
	case entity.RoleIDAdmin, entity.RoleIDReceptionist:
		return true
	case entity.RoleIDDoctor:
		return appointment.Doctor.UserID == actor.UserID
	case entity.RoleIDPatient:
		return appointment.Patient.UserID != nil && *appointment.Patient.UserID == actor.UserID
	}
	return false
}

func (u *appointmentUsecase) findAppointment(db *gorm.DB, actor Actor, id string) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !canAccessAppointment(actor, appointment) {
		return nil, ErrForbidden
	}
	return appointment, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, actor Actor, id string) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(u.db.WithContext(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) UpdateStatus(ctx context.Context, actor Actor, id string, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findAppointment(tx, actor, id)
	if err != nil {
		return nil, err
	}

	next := entity.AppointmentStatus(req.Status)
	if !appointment.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}

	before := *appointment
	switch next {
	case entity.AppointmentStatusCheckedIn:
		if err := u.assignQueue(tx, appointment); err != nil {
			return nil, err
		}
	case entity.AppointmentStatusCancelled:
		appointment.Status = next
		appointment.CancelReason = req.Reason
	default:
		appointment.Status = next
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, actor.ref(), entity.AuditActionAppointmentStatus, "appointment", appointment.ID, before.Status, appointment.Status)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notify(ctx, appointment, "Appointment status changed",
		fmt.Sprintf("Appointment %s is now %s.", appointment.ID, appointment.Status))

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Reschedule(ctx context.Context, actor Actor, id string, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := parseDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findAppointment(tx, actor, id)
	if err != nil {
		return nil, err
	}
	if !appointment.IsReschedulable() {
		return nil, ErrNotReschedulable
	}

	if err := u.checkSlot(tx, &appointment.Doctor, appointment.PatientID, date, req.AppointmentTime, appointment.ID); err != nil {
		return nil, err
	}

	before := *appointment
	appointment.AppointmentDate = date
	appointment.AppointmentTime = req.AppointmentTime
	appointment.Status = entity.AppointmentStatusScheduled
	appointment.QueueNumber = nil
	appointment.CheckedInAt = nil

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if conflict := slotConflict(err); conflict != nil {
			return nil, conflict
		}
		u.log.Warnf("Failed to reschedule appointment: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, actor.ref(), entity.AuditActionAppointmentMove, "appointment", appointment.ID,
		map[string]string{"date": before.AppointmentDate.Format("2006-01-02"), "time": before.AppointmentTime},
		map[string]string{"date": req.AppointmentDate, "time": req.AppointmentTime},
	)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notify(ctx, appointment, "Appointment rescheduled",
		fmt.Sprintf("Appointment %s moved to %s at %s.", appointment.ID, req.AppointmentDate, appointment.AppointmentTime))

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Cancel(ctx context.Context, actor Actor, id string, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findAppointment(tx, actor, id)
	if err != nil {
		return nil, err
	}
	if !appointment.IsCancellable() {
		return nil, ErrNotCancellable
	}

	before := appointment.Status
	appointment.Status = entity.AppointmentStatusCancelled
	appointment.CancelReason = req.Reason

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to cancel appointment: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, actor.ref(), entity.AuditActionAppointmentCancel, "appointment", appointment.ID, before, appointment.Status)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notify(ctx, appointment, "Appointment cancelled",
		fmt.Sprintf("Appointment %s on %s at %s has been cancelled.", appointment.ID, appointment.AppointmentDate.Format("2006-01-02"), appointment.AppointmentTime))

	return converter.AppointmentToResponse(appointment), nil
}
