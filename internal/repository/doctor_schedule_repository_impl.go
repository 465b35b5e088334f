package repository

import (
	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorScheduleRepository struct{}

func NewDoctorScheduleRepository() domainRepo.DoctorScheduleRepository {
	return &doctorScheduleRepository{}
}

func (r *doctorScheduleRepository) Create(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	return db.Create(schedule).Error
}

func (r *doctorScheduleRepository) FindByID(db *gorm.DB, id int) (*entity.DoctorSchedule, error) {
	var schedule entity.DoctorSchedule
	found, err := first(db.Where("id = ?", id), &schedule)
	if err != nil || !found {
		return nil, err
	}
	return &schedule, nil
}

func (r *doctorScheduleRepository) FindByDoctorID(db *gorm.DB, doctorID string) ([]entity.DoctorSchedule, error) {
	var schedules []entity.DoctorSchedule
	err := db.Where("doctor_id = ?", doctorID).Order("day_of_week ASC, start_time ASC").Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *doctorScheduleRepository) FindByDoctorAndDay(db *gorm.DB, doctorID string, dayOfWeek int) ([]entity.DoctorSchedule, error) {
	var schedules []entity.DoctorSchedule
	err := db.Where("doctor_id = ? AND day_of_week = ?", doctorID, dayOfWeek).
		Order("start_time ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *doctorScheduleRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.DoctorSchedule{})
	return result.RowsAffected, result.Error
}

func (r *doctorScheduleRepository) DeleteByDoctorID(db *gorm.DB, doctorID string) error {
	return db.Where("doctor_id = ?", doctorID).Delete(&entity.DoctorSchedule{}).Error
}
