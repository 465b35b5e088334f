package repository

import (
	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

func (r *auditLogRepository) filtered(db *gorm.DB, filter entity.AuditLogFilter) *gorm.DB {
	query := db.Model(&entity.AuditLog{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	return query
}

func (r *auditLogRepository) FindAll(db *gorm.DB, filter entity.AuditLogFilter, page entity.Pagination) ([]entity.AuditLog, int64, error) {
	var total int64
	if err := r.filtered(db, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []entity.AuditLog
	err := paginate(r.filtered(db, filter), page).
		Preload("User.Role").
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *auditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	found, err := first(db.Preload("User.Role").Where("id = ?", id), &log)
	if err != nil || !found {
		return nil, err
	}
	return &log, nil
}
