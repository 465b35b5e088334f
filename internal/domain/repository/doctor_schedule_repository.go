package repository

import (
	"hospital-management/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorScheduleRepository interface {
	Create(db *gorm.DB, schedule *entity.DoctorSchedule) error
	FindByID(db *gorm.DB, id int) (*entity.DoctorSchedule, error)
	FindByDoctorID(db *gorm.DB, doctorID string) ([]entity.DoctorSchedule, error)
	FindByDoctorAndDay(db *gorm.DB, doctorID string, dayOfWeek int) ([]entity.DoctorSchedule, error)
	Delete(db *gorm.DB, id int) (int64, error)
	DeleteByDoctorID(db *gorm.DB, doctorID string) error
}
