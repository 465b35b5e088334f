package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateMedicalRecordRequest struct {
	PatientID     string                 `json:"patient_id" validate:"required,hms_id=patient"`
	AppointmentID string                 `json:"appointment_id" validate:"omitempty,hms_id=appointment"`
	VisitDate     string                 `json:"visit_date" validate:"omitempty,date_ymd"`
	Symptoms      string                 `json:"symptoms" validate:"omitempty,max=5000"`
	Diagnosis     string                 `json:"diagnosis" validate:"required,max=5000"`
	Treatment     string                 `json:"treatment" validate:"omitempty,max=5000"`
	Prescription  string                 `json:"prescription" validate:"omitempty,max=5000"`
	Notes         string                 `json:"notes" validate:"omitempty,max=5000"`
	Vitals        map[string]interface{} `json:"vitals"`
}

type UpdateMedicalRecordRequest struct {
	Symptoms     *string                `json:"symptoms" validate:"omitempty,max=5000"`
	Diagnosis    *string                `json:"diagnosis" validate:"omitempty,min=1,max=5000"`
	Treatment    *string                `json:"treatment" validate:"omitempty,max=5000"`
	Prescription *string                `json:"prescription" validate:"omitempty,max=5000"`
	Notes        *string                `json:"notes" validate:"omitempty,max=5000"`
	Vitals       map[string]interface{} `json:"vitals"`
}

// Response DTOs

type MedicalRecordResponse struct {
	ID            string                 `json:"id"`
	PatientID     string                 `json:"patient_id"`
	PatientName   string                 `json:"patient_name,omitempty"`
	DoctorID      string                 `json:"doctor_id"`
	DoctorName    string                 `json:"doctor_name,omitempty"`
	AppointmentID *string                `json:"appointment_id,omitempty"`
	VisitDate     string                 `json:"visit_date"`
	Symptoms      string                 `json:"symptoms,omitempty"`
	Diagnosis     string                 `json:"diagnosis"`
	Treatment     string                 `json:"treatment,omitempty"`
	Prescription  string                 `json:"prescription,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	Vitals        map[string]interface{} `json:"vitals,omitempty"`
	Attachments   []AttachmentResponse   `json:"attachments,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	DownloadURL string    `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
