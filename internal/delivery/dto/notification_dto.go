package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateNotificationRequest targets one user or every user of a role.
type CreateNotificationRequest struct {
	UserID  string `json:"user_id" validate:"omitempty,uuid"`
	Role    string `json:"role" validate:"omitempty,oneof=admin doctor patient receptionist"`
	Title   string `json:"title" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
	Type    string `json:"type" validate:"omitempty,oneof=appointment payment system"`
}

// Response DTOs

type NotificationResponse struct {
	ID        uuid.UUID              `json:"id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

type BroadcastResponse struct {
	Recipients int `json:"recipients"`
}
