package repository

import (
	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type receptionistRepository struct{}

func NewReceptionistRepository() domainRepo.ReceptionistRepository {
	return &receptionistRepository{}
}

func (r *receptionistRepository) Create(db *gorm.DB, receptionist *entity.Receptionist) error {
	return db.Omit(clause.Associations).Create(receptionist).Error
}

func (r *receptionistRepository) FindByID(db *gorm.DB, id string) (*entity.Receptionist, error) {
	var receptionist entity.Receptionist
	found, err := first(db.Preload("User").Preload("Department").Where("id = ?", id), &receptionist)
	if err != nil || !found {
		return nil, err
	}
	return &receptionist, nil
}

func (r *receptionistRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Receptionist, error) {
	var receptionist entity.Receptionist
	found, err := first(db.Where("user_id = ?", userID), &receptionist)
	if err != nil || !found {
		return nil, err
	}
	return &receptionist, nil
}

func (r *receptionistRepository) FindAll(db *gorm.DB) ([]entity.Receptionist, error) {
	var receptionists []entity.Receptionist
	err := db.Preload("User").Preload("Department").Order("created_at ASC").Find(&receptionists).Error
	if err != nil {
		return nil, err
	}
	return receptionists, nil
}
