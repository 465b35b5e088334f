package service

import (
	"context"
	"fmt"
	"time"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationPublisher hands notification events to the delivery pipeline.
// Usecases publish after their transaction commits.
type NotificationPublisher interface {
	Publish(ctx context.Context, event entity.NotificationEvent) error
}

// NotificationWriter turns events into notification rows, one per recipient.
type NotificationWriter struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationWriter(db *gorm.DB, log *logrus.Logger, notificationRepo repository.NotificationRepository) *NotificationWriter {
	return &NotificationWriter{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
	}
}

// Persist stores the event for every distinct, non-nil recipient.
func (w *NotificationWriter) Persist(ctx context.Context, event entity.NotificationEvent) error {
	recipients := lo.Uniq(lo.Filter(event.UserIDs, func(id uuid.UUID, _ int) bool {
		return id != uuid.Nil
	}))
	if len(recipients) == 0 {
		return nil
	}

	notificationType := event.Type
	if notificationType == "" {
		notificationType = entity.NotificationTypeSystem
	}

	notifications := lo.Map(recipients, func(userID uuid.UUID, _ int) entity.Notification {
		return entity.Notification{
			UserID:   userID,
			Title:    event.Title,
			Message:  event.Message,
			Type:     notificationType,
			Metadata: datatypes.JSONMap(event.Metadata),
		}
	})

	if err := w.notificationRepo.CreateBatch(w.db.WithContext(ctx), notifications); err != nil {
		return fmt.Errorf("persist %d notifications: %w", len(notifications), err)
	}
	return nil
}

type directPublisher struct {
	writer *NotificationWriter
}

// NewDirectPublisher stores events synchronously, used when no broker is configured.
func NewDirectPublisher(writer *NotificationWriter) NotificationPublisher {
	return &directPublisher{writer: writer}
}

func (p *directPublisher) Publish(ctx context.Context, event entity.NotificationEvent) error {
	return p.writer.Persist(ctx, event)
}

// NewEvent fills OccurredAt and drops nil recipients.
func NewEvent(notificationType, title, message string, metadata map[string]interface{}, userIDs ...*uuid.UUID) entity.NotificationEvent {
	ids := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return entity.NotificationEvent{
		UserIDs:    ids,
		Title:      title,
		Message:    message,
		Type:       notificationType,
		Metadata:   metadata,
		OccurredAt: time.Now().UTC(),
	}
}
