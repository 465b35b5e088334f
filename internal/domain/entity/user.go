package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the profile every login belongs to, whatever its role.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoleID    int       `gorm:"not null;index" json:"role_id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsActive  *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.IsActive == nil {
		u.IsActive = BoolPtr(true)
	}
	return nil
}

// Active treats a missing flag as active.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

func BoolPtr(b bool) *bool {
	return &b
}
