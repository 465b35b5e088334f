package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a patient's rating of a completed appointment.
type Review struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"appointment_id"`
	PatientID     string    `gorm:"type:varchar(32);not null;index" json:"patient_id"`
	DoctorID      string    `gorm:"type:varchar(32);not null;index" json:"doctor_id"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

const (
	MinRating = 1
	MaxRating = 5
)

// RatingCount is one row of a rating histogram query.
type RatingCount struct {
	Rating int
	Count  int64
}
