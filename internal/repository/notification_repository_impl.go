package repository

import (
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct{}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) CreateBatch(db *gorm.DB, notifications []entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return db.CreateInBatches(notifications, 100).Error
}

func (r *notificationRepository) filtered(db *gorm.DB, filter entity.NotificationFilter) *gorm.DB {
	query := db.Model(&entity.Notification{}).Where("user_id = ?", filter.UserID)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	return query
}

func (r *notificationRepository) FindAll(db *gorm.DB, filter entity.NotificationFilter, page entity.Pagination) ([]entity.Notification, int64, error) {
	var total int64
	if err := r.filtered(db, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []entity.Notification
	err := paginate(r.filtered(db, filter), page).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *notificationRepository) CountUnread(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.filtered(db, entity.NotificationFilter{UserID: userID, UnreadOnly: true}).Count(&count).Error
	return count, err
}

// MarkRead only touches the row when it belongs to userID, so a zero result
// means "not yours or not found".
func (r *notificationRepository) MarkRead(db *gorm.DB, id, userID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now().UTC()})
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now().UTC()})
	return result.RowsAffected, result.Error
}
