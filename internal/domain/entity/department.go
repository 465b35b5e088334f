package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department is a clinical unit. Code is the prefix of department-scoped IDs.
type Department struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(6);uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Location    string    `gorm:"type:varchar(255)" json:"location,omitempty"`
	IsActive    *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.IsActive == nil {
		d.IsActive = BoolPtr(true)
	}
	return nil
}

func (d *Department) Active() bool {
	return d.IsActive == nil || *d.IsActive
}

// Specialty is a medical specialty offered by a department.
type Specialty struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_specialties_department_name" json:"department_id"`
	Name         string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_specialties_department_name" json:"name"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Specialty) TableName() string {
	return "specialties"
}

func (s *Specialty) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
