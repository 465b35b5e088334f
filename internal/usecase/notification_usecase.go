package usecase

import (
	"context"
	"errors"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrNotificationTargetNeeded = errors.New("either user_id or role is required")
	ErrNoRecipients             = errors.New("no active user matches the target")
)

type NotificationUsecase interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, page entity.Pagination) ([]dto.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkReadResponse, error)
	CreateNotification(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.BroadcastResponse, error)
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	publisher        service.NotificationPublisher
}

func NewNotificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher service.NotificationPublisher,
) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
	}
}

func (u *notificationUsecase) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, page entity.Pagination) ([]dto.NotificationResponse, int64, error) {
	filter := entity.NotificationFilter{UserID: userID, UnreadOnly: unreadOnly}
	notifications, total, err := u.notificationRepo.FindAll(u.db.WithContext(ctx), filter, page)
	if err != nil {
		u.log.Warnf("Failed to find notifications: %+v", err)
		return nil, 0, err
	}
	return converter.NotificationsToResponses(notifications), total, nil
}

func (u *notificationUsecase) UnreadCount(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, error) {
	count, err := u.notificationRepo.CountUnread(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to count unread notifications: %+v", err)
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

// MarkRead reports ErrNotificationNotFound for notifications of other users.
func (u *notificationUsecase) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := u.notificationRepo.MarkRead(u.db.WithContext(ctx), id, userID)
	if err != nil {
		u.log.Warnf("Failed to mark notification read: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkReadResponse, error) {
	affected, err := u.notificationRepo.MarkAllRead(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to mark notifications read: %+v", err)
		return nil, err
	}
	return &dto.MarkReadResponse{Updated: affected}, nil
}

func (u *notificationUsecase) CreateNotification(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.BroadcastResponse, error) {
	db := u.db.WithContext(ctx)

	var recipients []uuid.UUID
	switch {
	case req.UserID != "":
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		user, err := u.userRepo.FindByID(db, userID)
		if err != nil {
			u.log.Warnf("Failed to find user by ID: %+v", err)
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		recipients = []uuid.UUID{user.ID}
	case req.Role != "":
		roleID, ok := entity.RoleIDByName(req.Role)
		if !ok {
			return nil, ErrNotificationTargetNeeded
		}
		ids, err := u.userRepo.FindIDsByRole(db, roleID)
		if err != nil {
			u.log.Warnf("Failed to find users by role: %+v", err)
			return nil, err
		}
		recipients = ids
	default:
		return nil, ErrNotificationTargetNeeded
	}

	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	notificationType := req.Type
	if notificationType == "" {
		notificationType = entity.NotificationTypeSystem
	}

	event := service.NewEvent(notificationType, req.Title, req.Message, nil)
	event.UserIDs = recipients
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish notification: %+v", err)
		return nil, err
	}

	return &dto.BroadcastResponse{Recipients: len(recipients)}, nil
}
