package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateDoctorRequest creates the login account and the doctor record together.
type CreateDoctorRequest struct {
	Email             string           `json:"email" validate:"required,email"`
	Password          string           `json:"password" validate:"required,min=8,max=72"`
	FullName          string           `json:"full_name" validate:"required,min=2,max=255"`
	Phone             string           `json:"phone" validate:"omitempty,min=6,max=20"`
	DepartmentID      string           `json:"department_id" validate:"required,uuid"`
	SpecialtyID       string           `json:"specialty_id" validate:"omitempty,uuid"`
	LicenseNumber     string           `json:"license_number" validate:"required,max=50"`
	YearsOfExperience int              `json:"years_of_experience" validate:"gte=0,lte=70"`
	ConsultationFee   *decimal.Decimal `json:"consultation_fee"`
	Bio               string           `json:"bio" validate:"omitempty,max=2000"`
}

type UpdateDoctorRequest struct {
	FullName          string           `json:"full_name" validate:"omitempty,min=2,max=255"`
	Phone             *string          `json:"phone" validate:"omitempty,max=20"`
	SpecialtyID       *string          `json:"specialty_id" validate:"omitempty,uuid"`
	LicenseNumber     string           `json:"license_number" validate:"omitempty,max=50"`
	YearsOfExperience *int             `json:"years_of_experience" validate:"omitempty,gte=0,lte=70"`
	ConsultationFee   *decimal.Decimal `json:"consultation_fee"`
	Bio               *string          `json:"bio" validate:"omitempty,max=2000"`
	IsAvailable       *bool            `json:"is_available"`
	IsActive          *bool            `json:"is_active"`
}

// UpdateMyDoctorRequest is what a doctor may change on their own profile.
type UpdateMyDoctorRequest struct {
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
	IsAvailable *bool   `json:"is_available"`
}

type DoctorListQuery struct {
	DepartmentID string `validate:"omitempty,uuid"`
	SpecialtyID  string `validate:"omitempty,uuid"`
	Search       string `validate:"omitempty,max=100"`
	Available    *bool
	Page         int
	Limit        int
}

// Response DTOs

type DoctorResponse struct {
	ID                string          `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone,omitempty"`
	DepartmentID      uuid.UUID       `json:"department_id"`
	DepartmentCode    string          `json:"department_code,omitempty"`
	DepartmentName    string          `json:"department_name,omitempty"`
	SpecialtyID       *uuid.UUID      `json:"specialty_id,omitempty"`
	SpecialtyName     string          `json:"specialty_name,omitempty"`
	LicenseNumber     string          `json:"license_number"`
	YearsOfExperience int             `json:"years_of_experience"`
	ConsultationFee   decimal.Decimal `json:"consultation_fee"`
	Bio               string          `json:"bio,omitempty"`
	IsAvailable       bool            `json:"is_available"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
