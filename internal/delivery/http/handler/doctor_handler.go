package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	available, ok := queryBool(r, "available")
	if !ok {
		response.BadRequest(w, "available must be true or false")
		return
	}
	page := pagination(r)
	query := dto.DoctorListQuery{
		DepartmentID: q.Get("department_id"),
		SpecialtyID:  q.Get("specialty_id"),
		Search:       q.Get("search"),
		Available:    available,
		Page:         page.Page,
		Limit:        page.Limit,
	}
	if !validateQuery(w, h.validator, &query) {
		return
	}

	doctors, total, err := h.doctorUsecase.ListDoctors(r.Context(), query)
	if err != nil {
		writeError(w, err, "Failed to get doctors")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Doctors retrieved successfully", doctors, pageMeta(page, total))
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "doctor", "doctor")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDoctorRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.CreateDoctor(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to create doctor")
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "doctor", "doctor")
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.UpdateDoctor(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "doctor", "doctor")
	if !ok {
		return
	}

	if err := h.doctorUsecase.DeleteDoctor(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err, "Failed to delete doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor deleted successfully", nil)
}

func (h *DoctorHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.doctorUsecase.GetMyProfile(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", doctor)
}

func (h *DoctorHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateMyDoctorRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.UpdateMyProfile(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", doctor)
}
