package repository

import (
	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceptionistRepository interface {
	Create(db *gorm.DB, receptionist *entity.Receptionist) error
	FindByID(db *gorm.DB, id string) (*entity.Receptionist, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Receptionist, error)
	FindAll(db *gorm.DB) ([]entity.Receptionist, error)
}
