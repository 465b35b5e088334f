package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MedicalRecord is one visit note written by a doctor.
type MedicalRecord struct {
	ID            string            `gorm:"type:varchar(32);primaryKey" json:"id"`
	PatientID     string            `gorm:"type:varchar(32);not null;index" json:"patient_id"`
	DoctorID      string            `gorm:"type:varchar(32);not null;index" json:"doctor_id"`
	AppointmentID *string           `gorm:"type:varchar(32);index" json:"appointment_id,omitempty"`
	VisitDate     time.Time         `gorm:"type:date;not null" json:"visit_date"`
	Symptoms      string            `gorm:"type:text" json:"symptoms,omitempty"`
	Diagnosis     string            `gorm:"type:text;not null" json:"diagnosis"`
	Treatment     string            `gorm:"type:text" json:"treatment,omitempty"`
	Prescription  string            `gorm:"type:text" json:"prescription,omitempty"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	Vitals        datatypes.JSONMap `json:"vitals,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient     Patient                   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor      Doctor                    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Attachments []MedicalRecordAttachment `gorm:"foreignKey:MedicalRecordID" json:"attachments,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}

// MedicalRecordAttachment points at an uploaded file in object storage.
type MedicalRecordAttachment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MedicalRecordID string     `gorm:"type:varchar(32);not null;index" json:"medical_record_id"`
	FileName        string     `gorm:"type:varchar(255);not null" json:"file_name"`
	ContentType     string     `gorm:"type:varchar(100);not null" json:"content_type"`
	SizeBytes       int64      `gorm:"not null" json:"size_bytes"`
	ObjectKey       string     `gorm:"type:varchar(512);not null;uniqueIndex" json:"object_key"`
	UploadedBy      *uuid.UUID `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (MedicalRecordAttachment) TableName() string {
	return "medical_record_attachments"
}

func (a *MedicalRecordAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

const MaxAttachmentSize = 10 << 20
