package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateReviewRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required,hms_id=appointment"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment" validate:"omitempty,max=1000"`
}

// Response DTOs

type ReviewResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID string    `json:"appointment_id"`
	DoctorID      string    `json:"doctor_id"`
	PatientID     string    `json:"patient_id"`
	PatientName   string    `json:"patient_name,omitempty"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RatingResponse summarises a doctor's reviews. Distribution always has keys 1..5.
type RatingResponse struct {
	DoctorID     string        `json:"doctor_id"`
	Average      float64       `json:"average"`
	Total        int64         `json:"total"`
	Distribution map[int]int64 `json:"distribution"`
}
