package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

// ReceptionistHandler serves the front desk: staff accounts, the daily
// dashboard, the queue, check-ins and walk-ins.
type ReceptionistHandler struct {
	receptionistUsecase usecase.ReceptionistUsecase
	validator           *validator.CustomValidator
}

func NewReceptionistHandler(receptionistUsecase usecase.ReceptionistUsecase, validator *validator.CustomValidator) *ReceptionistHandler {
	return &ReceptionistHandler{
		receptionistUsecase: receptionistUsecase,
		validator:           validator,
	}
}

func (h *ReceptionistHandler) CreateReceptionist(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReceptionistRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	receptionist, err := h.receptionistUsecase.CreateReceptionist(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to create receptionist")
		return
	}

	response.Success(w, http.StatusCreated, "Receptionist created successfully", receptionist)
}

func (h *ReceptionistHandler) ListReceptionists(w http.ResponseWriter, r *http.Request) {
	receptionists, err := h.receptionistUsecase.ListReceptionists(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get receptionists")
		return
	}

	response.Success(w, http.StatusOK, "Receptionists retrieved successfully", receptionists)
}

func (h *ReceptionistHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.receptionistUsecase.Dashboard(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *ReceptionistHandler) Queue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	queue, err := h.receptionistUsecase.Queue(r.Context(), q.Get("date"), q.Get("department_id"))
	if err != nil {
		writeError(w, err, "Failed to get queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", queue)
}

func (h *ReceptionistHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "appointmentId", "appointment", "appointment")
	if !ok {
		return
	}

	appointment, err := h.receptionistUsecase.CheckIn(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err, "Failed to check in appointment")
		return
	}

	response.Success(w, http.StatusOK, "Patient checked in successfully", appointment)
}

func (h *ReceptionistHandler) WalkIn(w http.ResponseWriter, r *http.Request) {
	var req dto.WalkInRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	walkIn, err := h.receptionistUsecase.WalkIn(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to register walk-in")
		return
	}

	response.Success(w, http.StatusCreated, "Walk-in registered successfully", walkIn)
}
