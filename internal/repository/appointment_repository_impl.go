package repository

import (
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

// inactiveStatuses no longer hold their slot.
var inactiveStatuses = []entity.AppointmentStatus{
	entity.AppointmentStatusCancelled,
	entity.AppointmentStatusNoShow,
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	query := db.Preload("Patient").Preload("Doctor.User").Preload("Department").Preload("Room").Where("id = ?", id)
	found, err := first(query, &appointment)
	if err != nil || !found {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) filtered(db *gorm.DB, filter entity.AppointmentFilter) *gorm.DB {
	query := db.Model(&entity.Appointment{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DoctorID != "" {
		query = query.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != "" {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.DateFrom != nil {
		query = query.Where("appointment_date >= ?", entity.DateOnly(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("appointment_date <= ?", entity.DateOnly(*filter.DateTo))
	}
	return query
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter, page entity.Pagination) ([]entity.Appointment, int64, error) {
	var total int64
	if err := r.filtered(db, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appointments []entity.Appointment
	err := paginate(r.filtered(db, filter), page).
		Preload("Patient").Preload("Doctor.User").Preload("Department").
		Order("appointment_date DESC, appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

// List returns every matching appointment in chronological order, for exports.
func (r *appointmentRepository) List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.filtered(db, filter).
		Preload("Patient").Preload("Doctor.User").Preload("Department").
		Order("appointment_date ASC, appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Save(appointment).Error
}

func (r *appointmentRepository) FindActiveByDoctorSlot(db *gorm.DB, doctorID string, date time.Time, clock string, excludeID string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	query := db.Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ?", doctorID, entity.DateOnly(date), clock).
		Where("status NOT IN ?", inactiveStatuses)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	found, err := first(query, &appointment)
	if err != nil || !found {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByPatientSlot(db *gorm.DB, patientID string, date time.Time, clock string, excludeID string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	query := db.Where("patient_id = ? AND appointment_date = ? AND appointment_time = ?", patientID, entity.DateOnly(date), clock).
		Where("status NOT IN ?", inactiveStatuses)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	found, err := first(query, &appointment)
	if err != nil || !found {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindBookedTimes(db *gorm.DB, doctorID string, date time.Time) ([]string, error) {
	var times []string
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ?", doctorID, entity.DateOnly(date)).
		Where("status NOT IN ?", inactiveStatuses).
		Order("appointment_time ASC").
		Pluck("appointment_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *appointmentRepository) MaxQueueNumber(db *gorm.DB, doctorID string, date time.Time) (int, error) {
	var max int
	err := db.Model(&entity.Appointment{}).
		Select("COALESCE(MAX(queue_number), 0)").
		Where("doctor_id = ? AND appointment_date = ?", doctorID, entity.DateOnly(date)).
		Scan(&max).Error
	return max, err
}

func (r *appointmentRepository) FindQueue(db *gorm.DB, date time.Time, departmentID *uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Preload("Patient").Preload("Doctor.User").Preload("Room").
		Where("appointment_date = ?", entity.DateOnly(date)).
		Where("status IN ?", []entity.AppointmentStatus{entity.AppointmentStatusCheckedIn, entity.AppointmentStatusInProgress})
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}
	err := query.Order("doctor_id ASC, queue_number ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByStatus(db *gorm.DB, date time.Time) (map[entity.AppointmentStatus]int64, error) {
	var rows []struct {
		Status entity.AppointmentStatus
		Count  int64
	}
	err := db.Model(&entity.Appointment{}).
		Select("status, COUNT(*) AS count").
		Where("appointment_date = ?", entity.DateOnly(date)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *appointmentRepository) CountByPatient(db *gorm.DB, patientID string) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).Where("patient_id = ?", patientID).Count(&count).Error
	return count, err
}

func (r *appointmentRepository) CountByDoctor(db *gorm.DB, doctorID string) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).Where("doctor_id = ?", doctorID).Count(&count).Error
	return count, err
}
