package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeAppointment = "appointment"
	NotificationTypePayment     = "payment"
	NotificationTypeSystem      = "system"
)

type Notification struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"user_id"`
	Title     string            `gorm:"type:varchar(255);not null" json:"title"`
	Message   string            `gorm:"type:text;not null" json:"message"`
	Type      string            `gorm:"type:varchar(30);not null;default:'system'" json:"type"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	IsRead    bool              `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NotificationEvent is the message producers publish; the notification
// service turns each recipient into one Notification row.
type NotificationEvent struct {
	UserIDs    []uuid.UUID            `json:"user_ids"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Type       string                 `json:"type"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
