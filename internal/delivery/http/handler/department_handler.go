package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"

	"github.com/google/uuid"
)

// DepartmentHandler serves departments, specialties and rooms.
type DepartmentHandler struct {
	departmentUsecase usecase.DepartmentUsecase
	validator         *validator.CustomValidator
}

func NewDepartmentHandler(departmentUsecase usecase.DepartmentUsecase, validator *validator.CustomValidator) *DepartmentHandler {
	return &DepartmentHandler{
		departmentUsecase: departmentUsecase,
		validator:         validator,
	}
}

func (h *DepartmentHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	active, ok := queryBool(r, "active")
	if !ok {
		response.BadRequest(w, "active must be true or false")
		return
	}

	departments, err := h.departmentUsecase.ListDepartments(r.Context(), active)
	if err != nil {
		writeError(w, err, "Failed to get departments")
		return
	}

	response.Success(w, http.StatusOK, "Departments retrieved successfully", departments)
}

func (h *DepartmentHandler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "department")
	if !ok {
		return
	}

	department, err := h.departmentUsecase.GetDepartment(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get department")
		return
	}

	response.Success(w, http.StatusOK, "Department retrieved successfully", department)
}

func (h *DepartmentHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDepartmentRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	department, err := h.departmentUsecase.CreateDepartment(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to create department")
		return
	}

	response.Success(w, http.StatusCreated, "Department created successfully", department)
}

func (h *DepartmentHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "department")
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	department, err := h.departmentUsecase.UpdateDepartment(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update department")
		return
	}

	response.Success(w, http.StatusOK, "Department updated successfully", department)
}

func (h *DepartmentHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "department")
	if !ok {
		return
	}

	if err := h.departmentUsecase.DeleteDepartment(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err, "Failed to delete department")
		return
	}

	response.Success(w, http.StatusOK, "Department deleted successfully", nil)
}

// Specialties

func (h *DepartmentHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.departmentUsecase.ListSpecialties(r.Context(), r.URL.Query().Get("department_id"))
	if err != nil {
		writeError(w, err, "Failed to get specialties")
		return
	}

	response.Success(w, http.StatusOK, "Specialties retrieved successfully", specialties)
}

func (h *DepartmentHandler) CreateSpecialty(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSpecialtyRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	specialty, err := h.departmentUsecase.CreateSpecialty(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create specialty")
		return
	}

	response.Success(w, http.StatusCreated, "Specialty created successfully", specialty)
}

func (h *DepartmentHandler) UpdateSpecialty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "specialty")
	if !ok {
		return
	}

	var req dto.UpdateSpecialtyRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	specialty, err := h.departmentUsecase.UpdateSpecialty(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update specialty")
		return
	}

	response.Success(w, http.StatusOK, "Specialty updated successfully", specialty)
}

func (h *DepartmentHandler) DeleteSpecialty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "specialty")
	if !ok {
		return
	}

	if err := h.departmentUsecase.DeleteSpecialty(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete specialty")
		return
	}

	response.Success(w, http.StatusOK, "Specialty deleted successfully", nil)
}

// Rooms

func (h *DepartmentHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entity.RoomFilter{
		Status: entity.RoomStatus(q.Get("status")),
		Type:   q.Get("type"),
	}
	if err := h.validator.ValidateVar(q.Get("status"), "omitempty,oneof=available occupied maintenance"); err != nil {
		response.BadRequest(w, "status must be one of [available occupied maintenance]")
		return
	}
	if raw := q.Get("department_id"); raw != "" {
		departmentID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid department ID")
			return
		}
		filter.DepartmentID = &departmentID
	}

	rooms, err := h.departmentUsecase.ListRooms(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to get rooms")
		return
	}

	response.Success(w, http.StatusOK, "Rooms retrieved successfully", rooms)
}

func (h *DepartmentHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "room")
	if !ok {
		return
	}

	room, err := h.departmentUsecase.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get room")
		return
	}

	response.Success(w, http.StatusOK, "Room retrieved successfully", room)
}

func (h *DepartmentHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRoomRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	room, err := h.departmentUsecase.CreateRoom(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create room")
		return
	}

	response.Success(w, http.StatusCreated, "Room created successfully", room)
}

func (h *DepartmentHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "room")
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	room, err := h.departmentUsecase.UpdateRoom(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update room")
		return
	}

	response.Success(w, http.StatusOK, "Room updated successfully", room)
}

func (h *DepartmentHandler) UpdateRoomStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "room")
	if !ok {
		return
	}

	var req dto.UpdateRoomStatusRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	room, err := h.departmentUsecase.UpdateRoomStatus(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update room status")
		return
	}

	response.Success(w, http.StatusOK, "Room status updated successfully", room)
}

func (h *DepartmentHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "room")
	if !ok {
		return
	}

	if err := h.departmentUsecase.DeleteRoom(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete room")
		return
	}

	response.Success(w, http.StatusOK, "Room deleted successfully", nil)
}
