package handler

import (
	"net/http"
	"strconv"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"

	"github.com/gorilla/mux"
)

// DoctorScheduleHandler serves weekly schedules and the slot availability
// derived from them.
type DoctorScheduleHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorScheduleHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorScheduleHandler {
	return &DoctorScheduleHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, h.validator, "id", "doctor", "doctor")
	if !ok {
		return
	}

	schedules, err := h.doctorUsecase.ListSchedules(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get schedules")
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", schedules)
}

func (h *DoctorScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, h.validator, "id", "doctor", "doctor")
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	schedule, err := h.doctorUsecase.CreateSchedule(r.Context(), actorFrom(r), doctorID, &req)
	if err != nil {
		writeError(w, err, "Failed to create schedule")
		return
	}

	response.Success(w, http.StatusCreated, "Schedule created successfully", schedule)
}

func (h *DoctorScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, h.validator, "id", "doctor", "doctor")
	if !ok {
		return
	}
	scheduleID, err := strconv.Atoi(mux.Vars(r)["scheduleId"])
	if err != nil {
		response.BadRequest(w, "Invalid schedule ID")
		return
	}

	if err := h.doctorUsecase.DeleteSchedule(r.Context(), actorFrom(r), doctorID, scheduleID); err != nil {
		writeError(w, err, "Failed to delete schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule deleted successfully", nil)
}

func (h *DoctorScheduleHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, h.validator, "id", "doctor", "doctor")
	if !ok {
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date is required")
		return
	}

	availability, err := h.doctorUsecase.GetAvailability(r.Context(), doctorID, date)
	if err != nil {
		writeError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}
