package repository

import (
	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateBatch(db *gorm.DB, notifications []entity.Notification) error
	FindAll(db *gorm.DB, filter entity.NotificationFilter, page entity.Pagination) ([]entity.Notification, int64, error)
	CountUnread(db *gorm.DB, userID uuid.UUID) (int64, error)
	MarkRead(db *gorm.DB, id, userID uuid.UUID) (int64, error)
	MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error)
}
