package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
	ShiftNight     = "night"
)

// Receptionist is front desk staff, e.g. REC-202506-001.
type Receptionist struct {
	ID           string     `gorm:"type:varchar(32);primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index" json:"department_id,omitempty"`
	Shift        string     `gorm:"type:varchar(20);not null;default:'morning'" json:"shift"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Receptionist) TableName() string {
	return "receptionists"
}
