package repository

import (
	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentRepository interface {
	Create(db *gorm.DB, department *entity.Department) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Department, error)
	FindByCode(db *gorm.DB, code string) (*entity.Department, error)
	FindByName(db *gorm.DB, name string) (*entity.Department, error)
	FindAll(db *gorm.DB, active *bool) ([]entity.Department, error)
	Update(db *gorm.DB, department *entity.Department) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	CountDoctors(db *gorm.DB, id uuid.UUID) (int64, error)
}

type SpecialtyRepository interface {
	Create(db *gorm.DB, specialty *entity.Specialty) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Specialty, error)
	FindByDepartmentAndName(db *gorm.DB, departmentID uuid.UUID, name string) (*entity.Specialty, error)
	FindAll(db *gorm.DB, departmentID *uuid.UUID) ([]entity.Specialty, error)
	Update(db *gorm.DB, specialty *entity.Specialty) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}

type RoomRepository interface {
	Create(db *gorm.DB, room *entity.Room) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Room, error)
	FindByNumber(db *gorm.DB, number string) (*entity.Room, error)
	FindAll(db *gorm.DB, filter entity.RoomFilter) ([]entity.Room, error)
	Update(db *gorm.DB, room *entity.Room) error
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.RoomStatus) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
