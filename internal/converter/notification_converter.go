package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/samber/lo"
)

func NotificationToResponse(n *entity.Notification) *dto.NotificationResponse {
	if n == nil {
		return nil
	}

	return &dto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Metadata:  n.Metadata,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	return lo.Map(notifications, func(n entity.Notification, _ int) dto.NotificationResponse {
		return *NotificationToResponse(&n)
	})
}
