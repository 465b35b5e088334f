package repository

import (
	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindIDsByRole(db *gorm.DB, roleID int) ([]uuid.UUID, error)
	Update(db *gorm.DB, user *entity.User) error
	UpdatePassword(db *gorm.DB, id uuid.UUID, hash string) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
