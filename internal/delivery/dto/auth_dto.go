package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally carries the refresh token so it is revoked too.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72,nefield=OldPassword"`
}

// RegisterPatientRequest is the self registration form of the patient portal.
type RegisterPatientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	FullName    string `json:"full_name" validate:"required,min=2,max=255"`
	Phone       string `json:"phone" validate:"omitempty,min=6,max=20"`
	DateOfBirth string `json:"date_of_birth" validate:"required,date_ymd"`
	Gender      string `json:"gender" validate:"required,oneof=M F"`
	BloodType   string `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Address     string `json:"address" validate:"omitempty,max=1000"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone,omitempty"`
	RoleID         int       `json:"role_id"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	DoctorID       string    `json:"doctor_id,omitempty"`
	PatientID      string    `json:"patient_id,omitempty"`
	ReceptionistID string    `json:"receptionist_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type LoginResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}

type RegisterResponse struct {
	User      UserResponse `json:"user"`
	PatientID string       `json:"patient_id"`
}
