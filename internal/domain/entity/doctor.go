package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor holds doctor-specific data. ID is department coded, e.g. CARD-DOC-202506-001.
type Doctor struct {
	ID                string          `gorm:"type:varchar(32);primaryKey" json:"id"`
	UserID            uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	DepartmentID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"department_id"`
	SpecialtyID       *uuid.UUID      `gorm:"type:uuid;index" json:"specialty_id,omitempty"`
	LicenseNumber     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	YearsOfExperience int             `gorm:"not null;default:0" json:"years_of_experience"`
	ConsultationFee   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"consultation_fee"`
	Bio               string          `gorm:"type:text" json:"bio,omitempty"`
	IsAvailable       *bool           `gorm:"not null;default:true;index" json:"is_available"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User       User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Department Department       `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Specialty  *Specialty       `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
	Schedules  []DoctorSchedule `gorm:"foreignKey:DoctorID" json:"schedules,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) Available() bool {
	return d.IsAvailable == nil || *d.IsAvailable
}
