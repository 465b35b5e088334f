package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
	validator           *validator.CustomValidator
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase, validator *validator.CustomValidator) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
		validator:           validator,
	}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unread, ok := queryBool(r, "unread")
	if !ok {
		response.BadRequest(w, "unread must be true or false")
		return
	}
	page := pagination(r)

	notifications, total, err := h.notificationUsecase.ListNotifications(r.Context(), actorFrom(r).UserID, unread != nil && *unread, page)
	if err != nil {
		writeError(w, err, "Failed to get notifications")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Notifications retrieved successfully", notifications, pageMeta(page, total))
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationUsecase.UnreadCount(r.Context(), actorFrom(r).UserID)
	if err != nil {
		writeError(w, err, "Failed to count notifications")
		return
	}

	response.Success(w, http.StatusOK, "Unread count retrieved successfully", count)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationUsecase.MarkRead(r.Context(), actorFrom(r).UserID, id); err != nil {
		writeError(w, err, "Failed to mark notification as read")
		return
	}

	response.Success(w, http.StatusOK, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	marked, err := h.notificationUsecase.MarkAllRead(r.Context(), actorFrom(r).UserID)
	if err != nil {
		writeError(w, err, "Failed to mark notifications as read")
		return
	}

	response.Success(w, http.StatusOK, "Notifications marked as read", marked)
}

// CreateNotification sends an admin message to one user or to every active
// user of a role.
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateNotificationRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	sent, err := h.notificationUsecase.CreateNotification(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to send notification")
		return
	}

	response.Success(w, http.StatusCreated, "Notification sent successfully", sent)
}
