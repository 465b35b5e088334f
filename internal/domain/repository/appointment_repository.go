package repository

import (
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id string) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter entity.AppointmentFilter, page entity.Pagination) ([]entity.Appointment, int64, error)
	List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	// FindActiveByDoctorSlot returns the appointment occupying a doctor's slot, ignoring excludeID.
	FindActiveByDoctorSlot(db *gorm.DB, doctorID string, date time.Time, clock string, excludeID string) (*entity.Appointment, error)
	FindActiveByPatientSlot(db *gorm.DB, patientID string, date time.Time, clock string, excludeID string) (*entity.Appointment, error)
	FindBookedTimes(db *gorm.DB, doctorID string, date time.Time) ([]string, error)
	MaxQueueNumber(db *gorm.DB, doctorID string, date time.Time) (int, error)
	FindQueue(db *gorm.DB, date time.Time, departmentID *uuid.UUID) ([]entity.Appointment, error)
	CountByStatus(db *gorm.DB, date time.Time) (map[entity.AppointmentStatus]int64, error)
	CountByPatient(db *gorm.DB, patientID string) (int64, error)
	CountByDoctor(db *gorm.DB, doctorID string) (int64, error)
}
