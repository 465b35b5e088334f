package repository

import (
	"strings"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return db.Omit(clause.Associations).Create(user).Error
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	found, err := first(db.Preload("Role").Where("email = ?", strings.ToLower(strings.TrimSpace(email))), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	found, err := first(db.Preload("Role").Where("id = ?", id), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindIDsByRole(db *gorm.DB, roleID int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Model(&entity.User{}).
		Where("role_id = ? AND is_active = ?", roleID, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) Update(db *gorm.DB, user *entity.User) error {
	return db.Omit(clause.Associations).Save(user).Error
}

func (r *userRepository) UpdatePassword(db *gorm.DB, id uuid.UUID, hash string) error {
	return db.Model(&entity.User{}).Where("id = ?", id).Update("password", hash).Error
}

func (r *userRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.User{})
	return result.RowsAffected, result.Error
}
