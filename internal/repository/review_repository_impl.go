package repository

import (
	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepository struct{}

func NewReviewRepository() domainRepo.ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *entity.Review) error {
	return db.Omit(clause.Associations).Create(review).Error
}

func (r *reviewRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	found, err := first(db.Where("id = ?", id), &review)
	if err != nil || !found {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByAppointmentID(db *gorm.DB, appointmentID string) (*entity.Review, error) {
	var review entity.Review
	found, err := first(db.Where("appointment_id = ?", appointmentID), &review)
	if err != nil || !found {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByDoctorID(db *gorm.DB, doctorID string, page entity.Pagination) ([]entity.Review, int64, error) {
	var total int64
	if err := db.Model(&entity.Review{}).Where("doctor_id = ?", doctorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []entity.Review
	err := paginate(db.Where("doctor_id = ?", doctorID), page).
		Preload("Patient").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) RatingCounts(db *gorm.DB, doctorID string) ([]entity.RatingCount, error) {
	var counts []entity.RatingCount
	err := db.Model(&entity.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("doctor_id = ?", doctorID).
		Group("rating").
		Order("rating ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *reviewRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Review{})
	return result.RowsAffected, result.Error
}
