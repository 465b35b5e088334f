package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	if len(search) > 100 {
		response.BadRequest(w, "search must be at most 100 characters")
		return
	}
	page := pagination(r)

	patients, total, err := h.patientUsecase.ListPatients(r.Context(), search, page)
	if err != nil {
		writeError(w, err, "Failed to get patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", patients, pageMeta(page, total))
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "patient", "patient")
	if !ok {
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

// CreatePatient registers a walk-in patient without a login account.
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "patient", "patient")
	if !ok {
		return
	}

	var req dto.UpdatePatientRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "patient", "patient")
	if !ok {
		return
	}

	if err := h.patientUsecase.DeletePatient(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

func (h *PatientHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	patient, err := h.patientUsecase.GetMyProfile(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", patient)
}

func (h *PatientHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePatientRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.UpdateMyProfile(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", patient)
}
