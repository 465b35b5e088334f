package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a registered patient, with or without a portal account.
type Patient struct {
	ID                    string     `gorm:"type:varchar(32);primaryKey" json:"id"`
	UserID                *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	FullName              string     `gorm:"type:varchar(255);not null;index" json:"full_name"`
	DateOfBirth           time.Time  `gorm:"type:date;not null" json:"date_of_birth"`
	Gender                string     `gorm:"type:char(1);not null" json:"gender"`
	BloodType             string     `gorm:"type:varchar(3)" json:"blood_type,omitempty"`
	Phone                 string     `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	Email                 string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address               string     `gorm:"type:text" json:"address,omitempty"`
	EmergencyContactName  string     `gorm:"type:varchar(255)" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `gorm:"type:varchar(20)" json:"emergency_contact_phone,omitempty"`
	Allergies             string     `gorm:"type:text" json:"allergies,omitempty"`
	CreatedAt             time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// AgeAt returns the patient's age in whole years on day t.
func (p *Patient) AgeAt(t time.Time) int {
	if p.DateOfBirth.IsZero() {
		return 0
	}
	age := t.Year() - p.DateOfBirth.Year()
	if t.Month() < p.DateOfBirth.Month() || (t.Month() == p.DateOfBirth.Month() && t.Day() < p.DateOfBirth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
