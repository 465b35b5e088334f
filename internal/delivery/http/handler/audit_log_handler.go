package handler

import (
	"net/http"
	"strconv"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	auditLogID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		writeError(w, err, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// ListAuditLogs filters by actor (user_id) and action, newest first.
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entity.AuditLogFilter{Action: q.Get("action")}
	if raw := q.Get("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
			return
		}
		filter.UserID = &userID
	}
	page := pagination(r)

	auditLogs, total, err := h.auditLogUsecase.ListAuditLogs(r.Context(), filter, page)
	if err != nil {
		writeError(w, err, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs, pageMeta(page, total))
}
