package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateAppointmentRequest books a slot. PatientID is ignored for patients,
// who always book for themselves, and required for staff.
type CreateAppointmentRequest struct {
	PatientID       string `json:"patient_id" validate:"omitempty,hms_id=patient"`
	DoctorID        string `json:"doctor_id" validate:"required,hms_id=doctor"`
	AppointmentDate string `json:"appointment_date" validate:"required,date_ymd"`
	AppointmentTime string `json:"appointment_time" validate:"required,clock"`
	Type            string `json:"type" validate:"omitempty,oneof=consultation follow_up emergency"`
	Reason          string `json:"reason" validate:"omitempty,max=1000"`
	RoomID          string `json:"room_id" validate:"omitempty,uuid"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed checked_in in_progress completed cancelled no_show"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointment_date" validate:"required,date_ymd"`
	AppointmentTime string `json:"appointment_time" validate:"required,clock"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type AppointmentListQuery struct {
	Status    string `validate:"omitempty,oneof=scheduled confirmed checked_in in_progress completed cancelled no_show"`
	DoctorID  string `validate:"omitempty,hms_id=doctor"`
	PatientID string `validate:"omitempty,hms_id=patient"`
	DateFrom  string `validate:"omitempty,date_ymd"`
	DateTo    string `validate:"omitempty,date_ymd"`
	Page      int
	Limit     int
}

// Response DTOs

type AppointmentResponse struct {
	ID              string     `json:"id"`
	PatientID       string     `json:"patient_id"`
	PatientName     string     `json:"patient_name,omitempty"`
	DoctorID        string     `json:"doctor_id"`
	DoctorName      string     `json:"doctor_name,omitempty"`
	DepartmentID    uuid.UUID  `json:"department_id"`
	DepartmentName  string     `json:"department_name,omitempty"`
	RoomID          *uuid.UUID `json:"room_id,omitempty"`
	RoomNumber      string     `json:"room_number,omitempty"`
	AppointmentDate string     `json:"appointment_date"`
	AppointmentTime string     `json:"appointment_time"`
	Type            string     `json:"type"`
	Reason          string     `json:"reason,omitempty"`
	Status          string     `json:"status"`
	QueueNumber     *int       `json:"queue_number,omitempty"`
	CheckedInAt     *time.Time `json:"checked_in_at,omitempty"`
	CancelReason    string     `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
