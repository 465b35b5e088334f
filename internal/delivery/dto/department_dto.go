package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDepartmentRequest struct {
	Code        string `json:"code" validate:"required,dept_code"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Location    string `json:"location" validate:"omitempty,max=255"`
}

// UpdateDepartmentRequest has no code field: the code prefixes issued IDs.
type UpdateDepartmentRequest struct {
	Name        string  `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
}

type CreateSpecialtyRequest struct {
	DepartmentID string `json:"department_id" validate:"required,uuid"`
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
}

type UpdateSpecialtyRequest struct {
	Name        string  `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type CreateRoomRequest struct {
	RoomNumber   string `json:"room_number" validate:"required,max=20"`
	DepartmentID string `json:"department_id" validate:"required,uuid"`
	Type         string `json:"type" validate:"required,oneof=consultation ward icu operating lab"`
	Floor        int    `json:"floor" validate:"gte=0,lte=200"`
	Capacity     int    `json:"capacity" validate:"omitempty,gte=1,lte=100"`
}

type UpdateRoomRequest struct {
	Type     string `json:"type" validate:"omitempty,oneof=consultation ward icu operating lab"`
	Floor    *int   `json:"floor" validate:"omitempty,gte=0,lte=200"`
	Capacity *int   `json:"capacity" validate:"omitempty,gte=1,lte=100"`
}

type UpdateRoomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied maintenance"`
}

// Response DTOs

type DepartmentResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SpecialtyResponse struct {
	ID             uuid.UUID `json:"id"`
	DepartmentID   uuid.UUID `json:"department_id"`
	DepartmentName string    `json:"department_name,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type RoomResponse struct {
	ID             uuid.UUID `json:"id"`
	RoomNumber     string    `json:"room_number"`
	DepartmentID   uuid.UUID `json:"department_id"`
	DepartmentName string    `json:"department_name,omitempty"`
	Type           string    `json:"type"`
	Floor          int       `json:"floor"`
	Capacity       int       `json:"capacity"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
