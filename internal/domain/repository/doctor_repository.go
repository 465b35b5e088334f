package repository

import (
	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id string) (*entity.Doctor, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error)
	FindByLicense(db *gorm.DB, license string) (*entity.Doctor, error)
	FindAll(db *gorm.DB, filter entity.DoctorFilter, page entity.Pagination) ([]entity.Doctor, int64, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error
	Delete(db *gorm.DB, id string) (int64, error)
}
