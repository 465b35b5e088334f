package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination(r)
	query := dto.AppointmentListQuery{
		Status:    q.Get("status"),
		DoctorID:  q.Get("doctor_id"),
		PatientID: q.Get("patient_id"),
		DateFrom:  q.Get("date_from"),
		DateTo:    q.Get("date_to"),
		Page:      page.Page,
		Limit:     page.Limit,
	}
	if !validateQuery(w, h.validator, &query) {
		return
	}

	appointments, total, err := h.appointmentUsecase.ListAppointments(r.Context(), actorFrom(r), query)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", appointments, pageMeta(page, total))
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "appointment", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "appointment", "appointment")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "appointment", "appointment")
	if !ok {
		return
	}

	var req dto.RescheduleAppointmentRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Reschedule(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		writeError(w, err, "Failed to reschedule appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled successfully", appointment)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "appointment", "appointment")
	if !ok {
		return
	}

	var req dto.CancelAppointmentRequest
	if r.ContentLength > 0 && !bind(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Cancel(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		writeError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}
