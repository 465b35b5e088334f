package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"hospital-management/internal/delivery/http/middleware"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// errorStatuses maps usecase sentinels to HTTP statuses. The sentinel text is
// safe to show to clients.
var errorStatuses = []struct {
	err    error
	status int
}{
	// 400
	{usecase.ErrInvalidDateFormat, http.StatusBadRequest},
	{usecase.ErrInvalidDateRange, http.StatusBadRequest},
	{usecase.ErrAppointmentInPast, http.StatusBadRequest},
	{usecase.ErrNotInSchedule, http.StatusBadRequest},
	{usecase.ErrPatientIDRequired, http.StatusBadRequest},
	{usecase.ErrInvalidDepartmentQuery, http.StatusBadRequest},
	{usecase.ErrInvalidConsultationFee, http.StatusBadRequest},
	{usecase.ErrInvalidScheduleRange, http.StatusBadRequest},
	{usecase.ErrDepartmentInactive, http.StatusBadRequest},
	{usecase.ErrSpecialtyNotInDept, http.StatusBadRequest},
	{usecase.ErrDateOfBirthInFuture, http.StatusBadRequest},
	{usecase.ErrRecordAppointmentInvalid, http.StatusBadRequest},
	{usecase.ErrAttachmentEmpty, http.StatusBadRequest},
	{usecase.ErrNotificationTargetNeeded, http.StatusBadRequest},
	{usecase.ErrInvalidPaymentAmount, http.StatusBadRequest},
	{usecase.ErrWalkInPatientRequired, http.StatusBadRequest},
	{usecase.ErrCheckInNotToday, http.StatusBadRequest},
	{usecase.ErrDoctorUnavailable, http.StatusBadRequest},

	// 401
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
	{usecase.ErrInvalidToken, http.StatusUnauthorized},
	{usecase.ErrTokenRevoked, http.StatusUnauthorized},
	{usecase.ErrWrongPassword, http.StatusUnauthorized},

	// 403
	{usecase.ErrUserInactive, http.StatusForbidden},
	{usecase.ErrForbidden, http.StatusForbidden},

	// 404
	{usecase.ErrUserNotFound, http.StatusNotFound},
	{usecase.ErrDepartmentNotFound, http.StatusNotFound},
	{usecase.ErrSpecialtyNotFound, http.StatusNotFound},
	{usecase.ErrRoomNotFound, http.StatusNotFound},
	{usecase.ErrDoctorNotFound, http.StatusNotFound},
	{usecase.ErrDoctorProfileNotFound, http.StatusNotFound},
	{usecase.ErrScheduleNotFound, http.StatusNotFound},
	{usecase.ErrPatientNotFound, http.StatusNotFound},
	{usecase.ErrPatientProfileNotFound, http.StatusNotFound},
	{usecase.ErrMedicalRecordNotFound, http.StatusNotFound},
	{usecase.ErrAppointmentNotFound, http.StatusNotFound},
	{usecase.ErrNotificationNotFound, http.StatusNotFound},
	{usecase.ErrNoRecipients, http.StatusNotFound},
	{usecase.ErrPaymentNotFound, http.StatusNotFound},
	{usecase.ErrReviewNotFound, http.StatusNotFound},
	{usecase.ErrAuditLogNotFound, http.StatusNotFound},

	// 409
	{usecase.ErrEmailAlreadyExists, http.StatusConflict},
	{usecase.ErrDepartmentCodeExists, http.StatusConflict},
	{usecase.ErrDepartmentNameExists, http.StatusConflict},
	{usecase.ErrDepartmentHasDoctors, http.StatusConflict},
	{usecase.ErrSpecialtyExists, http.StatusConflict},
	{usecase.ErrSpecialtyInUse, http.StatusConflict},
	{usecase.ErrRoomNumberExists, http.StatusConflict},
	{usecase.ErrRoomInUse, http.StatusConflict},
	{usecase.ErrLicenseAlreadyExists, http.StatusConflict},
	{usecase.ErrDoctorHasAppointments, http.StatusConflict},
	{usecase.ErrScheduleOverlap, http.StatusConflict},
	{usecase.ErrPatientHasAppointments, http.StatusConflict},
	{usecase.ErrSlotTaken, http.StatusConflict},
	{usecase.ErrPatientDoubleBooked, http.StatusConflict},
	{usecase.ErrReviewAlreadyExists, http.StatusConflict},
	{usecase.ErrNoSlotAvailable, http.StatusConflict},

	// 413
	{usecase.ErrAttachmentTooLarge, http.StatusRequestEntityTooLarge},

	// 422
	{usecase.ErrInvalidStatusTransition, http.StatusUnprocessableEntity},
	{usecase.ErrNotReschedulable, http.StatusUnprocessableEntity},
	{usecase.ErrNotCancellable, http.StatusUnprocessableEntity},
	{usecase.ErrCheckInNotAllowed, http.StatusUnprocessableEntity},
	{usecase.ErrAppointmentNotPayable, http.StatusUnprocessableEntity},
	{usecase.ErrInvalidPaymentTransition, http.StatusUnprocessableEntity},
	{usecase.ErrAppointmentNotReviewable, http.StatusUnprocessableEntity},

	// 503
	{usecase.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

// StatusOf reports the HTTP status for a usecase error, 500 when unknown.
func StatusOf(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError answers with the sentinel's message, or fallback for
// unexpected errors which the usecase has already logged.
func writeError(w http.ResponseWriter, err error, fallback string) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		response.InternalServerError(w, fallback)
		return
	}
	response.Error(w, status, capitalize(err.Error()), nil)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// bind decodes the JSON body into req and validates it, writing the 400
// itself when either step fails.
func bind(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

// validateQuery validates a query struct built from URL parameters.
func validateQuery(w http.ResponseWriter, v *validator.CustomValidator, query interface{}) bool {
	if err := v.Validate(query); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

// pathID reads a coded identifier such as CARD-DOC-202506-001 from the route
// and checks it against the id kind.
func pathID(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, name, kind, label string) (string, bool) {
	id := mux.Vars(r)[name]
	if err := v.ValidateVar(id, "required,hms_id="+kind); err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return "", false
	}
	return id, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func actorFrom(r *http.Request) usecase.Actor {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	roleID, _ := middleware.GetRoleIDFromContext(r.Context())
	return usecase.Actor{UserID: userID, RoleID: roleID}
}

func pagination(r *http.Request) entity.Pagination {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return entity.Pagination{Page: page, Limit: limit}
}

func pageMeta(page entity.Pagination, total int64) *response.Meta {
	p := page.Normalize()
	return response.NewMeta(p.Page, p.Limit, total)
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) (*bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}
