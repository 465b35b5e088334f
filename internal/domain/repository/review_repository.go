package repository

import (
	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *entity.Review) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Review, error)
	FindByAppointmentID(db *gorm.DB, appointmentID string) (*entity.Review, error)
	FindByDoctorID(db *gorm.DB, doctorID string, page entity.Pagination) ([]entity.Review, int64, error)
	RatingCounts(db *gorm.DB, doctorID string) ([]entity.RatingCount, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
