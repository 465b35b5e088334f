package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	FullName              string `json:"full_name" validate:"required,min=2,max=255"`
	DateOfBirth           string `json:"date_of_birth" validate:"required,date_ymd"`
	Gender                string `json:"gender" validate:"required,oneof=M F"`
	BloodType             string `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Phone                 string `json:"phone" validate:"omitempty,min=6,max=20"`
	Email                 string `json:"email" validate:"omitempty,email"`
	Address               string `json:"address" validate:"omitempty,max=1000"`
	EmergencyContactName  string `json:"emergency_contact_name" validate:"omitempty,max=255"`
	EmergencyContactPhone string `json:"emergency_contact_phone" validate:"omitempty,max=20"`
	Allergies             string `json:"allergies" validate:"omitempty,max=2000"`
}

type UpdatePatientRequest struct {
	FullName              string  `json:"full_name" validate:"omitempty,min=2,max=255"`
	DateOfBirth           string  `json:"date_of_birth" validate:"omitempty,date_ymd"`
	Gender                string  `json:"gender" validate:"omitempty,oneof=M F"`
	BloodType             *string `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Phone                 *string `json:"phone" validate:"omitempty,max=20"`
	Email                 *string `json:"email" validate:"omitempty,email"`
	Address               *string `json:"address" validate:"omitempty,max=1000"`
	EmergencyContactName  *string `json:"emergency_contact_name" validate:"omitempty,max=255"`
	EmergencyContactPhone *string `json:"emergency_contact_phone" validate:"omitempty,max=20"`
	Allergies             *string `json:"allergies" validate:"omitempty,max=2000"`
}

// Response DTOs

type PatientResponse struct {
	ID                    string     `json:"id"`
	PatientID             string     `json:"patient_id"`
	UserID                *uuid.UUID `json:"user_id,omitempty"`
	FullName              string     `json:"full_name"`
	DateOfBirth           string     `json:"date_of_birth"`
	Age                   int        `json:"age"`
	Gender                string     `json:"gender"`
	BloodType             string     `json:"blood_type,omitempty"`
	Phone                 string     `json:"phone,omitempty"`
	Email                 string     `json:"email,omitempty"`
	Address               string     `json:"address,omitempty"`
	EmergencyContactName  string     `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `json:"emergency_contact_phone,omitempty"`
	Allergies             string     `json:"allergies,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
