package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateReceptionistRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	FullName     string `json:"full_name" validate:"required,min=2,max=255"`
	Phone        string `json:"phone" validate:"omitempty,min=6,max=20"`
	DepartmentID string `json:"department_id" validate:"omitempty,uuid"`
	Shift        string `json:"shift" validate:"omitempty,oneof=morning afternoon night"`
}

// WalkInRequest either references a registered patient or carries a new one.
type WalkInRequest struct {
	PatientID string                `json:"patient_id" validate:"omitempty,hms_id=patient"`
	Patient   *CreatePatientRequest `json:"patient"`
	DoctorID  string                `json:"doctor_id" validate:"required,hms_id=doctor"`
	Reason    string                `json:"reason" validate:"omitempty,max=1000"`
}

// Response DTOs

type ReceptionistResponse struct {
	ID             string     `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	DepartmentID   *uuid.UUID `json:"department_id,omitempty"`
	DepartmentName string     `json:"department_name,omitempty"`
	Shift          string     `json:"shift"`
	CreatedAt      time.Time  `json:"created_at"`
}

type DashboardResponse struct {
	Date              string           `json:"date"`
	TotalAppointments int64            `json:"total_appointments"`
	ByStatus          map[string]int64 `json:"by_status"`
	NewPatients       int64            `json:"new_patients"`
	Revenue           decimal.Decimal  `json:"revenue"`
	PaidPayments      int64            `json:"paid_payments"`
	QueueLength       int              `json:"queue_length"`
}

type WalkInResponse struct {
	Patient     PatientResponse     `json:"patient"`
	Appointment AppointmentResponse `json:"appointment"`
}
