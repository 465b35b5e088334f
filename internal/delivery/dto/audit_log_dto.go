package dto

import (
	"time"

	"github.com/google/uuid"
)

// Response DTOs

type AuditLogResponse struct {
	ID        int64                  `json:"id"`
	UserID    *uuid.UUID             `json:"user_id,omitempty"`
	User      *UserResponse          `json:"user,omitempty"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
