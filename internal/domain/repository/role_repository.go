package repository

import (
	"hospital-management/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByID(db *gorm.DB, id int) (*entity.Role, error)
	FindByName(db *gorm.DB, name string) (*entity.Role, error)
}
