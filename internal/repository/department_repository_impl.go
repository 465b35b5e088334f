package repository

import (
	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type departmentRepository struct{}

func NewDepartmentRepository() domainRepo.DepartmentRepository {
	return &departmentRepository{}
}

func (r *departmentRepository) Create(db *gorm.DB, department *entity.Department) error {
	return db.Create(department).Error
}

func (r *departmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Department, error) {
	var department entity.Department
	found, err := first(db.Where("id = ?", id), &department)
	if err != nil || !found {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) FindByCode(db *gorm.DB, code string) (*entity.Department, error) {
	var department entity.Department
	found, err := first(db.Where("code = ?", code), &department)
	if err != nil || !found {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) FindByName(db *gorm.DB, name string) (*entity.Department, error) {
	var department entity.Department
	found, err := first(db.Where("LOWER(name) = LOWER(?)", name), &department)
	if err != nil || !found {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) FindAll(db *gorm.DB, active *bool) ([]entity.Department, error) {
	var departments []entity.Department
	query := db.Order("name ASC")
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}
	if err := query.Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *departmentRepository) Update(db *gorm.DB, department *entity.Department) error {
	return db.Omit(clause.Associations).Save(department).Error
}

func (r *departmentRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Department{})
	return result.RowsAffected, result.Error
}

func (r *departmentRepository) CountDoctors(db *gorm.DB, id uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Doctor{}).Where("department_id = ?", id).Count(&count).Error
	return count, err
}

type specialtyRepository struct{}

func NewSpecialtyRepository() domainRepo.SpecialtyRepository {
	return &specialtyRepository{}
}

func (r *specialtyRepository) Create(db *gorm.DB, specialty *entity.Specialty) error {
	return db.Omit(clause.Associations).Create(specialty).Error
}

func (r *specialtyRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Specialty, error) {
	var specialty entity.Specialty
	found, err := first(db.Preload("Department").Where("id = ?", id), &specialty)
	if err != nil || !found {
		return nil, err
	}
	return &specialty, nil
}

func (r *specialtyRepository) FindByDepartmentAndName(db *gorm.DB, departmentID uuid.UUID, name string) (*entity.Specialty, error) {
	var specialty entity.Specialty
	found, err := first(db.Where("department_id = ? AND LOWER(name) = LOWER(?)", departmentID, name), &specialty)
	if err != nil || !found {
		return nil, err
	}
	return &specialty, nil
}

func (r *specialtyRepository) FindAll(db *gorm.DB, departmentID *uuid.UUID) ([]entity.Specialty, error) {
	var specialties []entity.Specialty
	query := db.Preload("Department").Order("name ASC")
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}
	if err := query.Find(&specialties).Error; err != nil {
		return nil, err
	}
	return specialties, nil
}

func (r *specialtyRepository) Update(db *gorm.DB, specialty *entity.Specialty) error {
	return db.Omit(clause.Associations).Save(specialty).Error
}

func (r *specialtyRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Specialty{})
	return result.RowsAffected, result.Error
}

type roomRepository struct{}

func NewRoomRepository() domainRepo.RoomRepository {
	return &roomRepository{}
}

func (r *roomRepository) Create(db *gorm.DB, room *entity.Room) error {
	return db.Omit(clause.Associations).Create(room).Error
}

func (r *roomRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Room, error) {
	var room entity.Room
	found, err := first(db.Preload("Department").Where("id = ?", id), &room)
	if err != nil || !found {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByNumber(db *gorm.DB, number string) (*entity.Room, error) {
	var room entity.Room
	found, err := first(db.Where("room_number = ?", number), &room)
	if err != nil || !found {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindAll(db *gorm.DB, filter entity.RoomFilter) ([]entity.Room, error) {
	var rooms []entity.Room
	query := db.Preload("Department").Order("room_number ASC")
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if err := query.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) Update(db *gorm.DB, room *entity.Room) error {
	return db.Omit(clause.Associations).Save(room).Error
}

func (r *roomRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.RoomStatus) (int64, error) {
	result := db.Model(&entity.Room{}).Where("id = ?", id).Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *roomRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Room{})
	return result.RowsAffected, result.Error
}
