package repository

import (
	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit(clause.Associations).Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	found, err := first(db.Preload("User").Preload("Department").Preload("Specialty").Where("id = ?", id), &doctor)
	if err != nil || !found {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	found, err := first(db.Preload("User").Preload("Department").Where("user_id = ?", userID), &doctor)
	if err != nil || !found {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByLicense(db *gorm.DB, license string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	found, err := first(db.Where("license_number = ?", license), &doctor)
	if err != nil || !found {
		return nil, err
	}
	return &doctor, nil
}

// filtered joins users so the name search and the active-account check can
// be expressed in SQL.
func (r *doctorRepository) filtered(db *gorm.DB, filter entity.DoctorFilter) *gorm.DB {
	query := db.Model(&entity.Doctor{}).
		Joins("JOIN users ON users.id = doctors.user_id").
		Where("users.is_active = ?", true)

	if filter.DepartmentID != nil {
		query = query.Where("doctors.department_id = ?", *filter.DepartmentID)
	}
	if filter.SpecialtyID != nil {
		query = query.Where("doctors.specialty_id = ?", *filter.SpecialtyID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(users.full_name) LIKE LOWER(?)", likePattern(filter.Search))
	}
	if filter.Available != nil {
		query = query.Where("doctors.is_available = ?", *filter.Available)
	}
	return query
}

func (r *doctorRepository) FindAll(db *gorm.DB, filter entity.DoctorFilter, page entity.Pagination) ([]entity.Doctor, int64, error) {
	var total int64
	if err := r.filtered(db, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var doctors []entity.Doctor
	err := paginate(r.filtered(db, filter), page).
		Preload("User").Preload("Department").Preload("Specialty").
		Order("users.full_name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, 0, err
	}
	return doctors, total, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit(clause.Associations).Save(doctor).Error
}

func (r *doctorRepository) Delete(db *gorm.DB, id string) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Doctor{})
	return result.RowsAffected, result.Error
}
