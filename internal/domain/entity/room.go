package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

const (
	RoomTypeConsultation = "consultation"
	RoomTypeWard         = "ward"
	RoomTypeICU          = "icu"
	RoomTypeOperating    = "operating"
	RoomTypeLab          = "lab"
)

type Room struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RoomNumber   string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"room_number"`
	DepartmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"department_id"`
	Type         string     `gorm:"type:varchar(20);not null" json:"type"`
	Floor        int        `gorm:"not null;default:0" json:"floor"`
	Capacity     int        `gorm:"not null;default:1" json:"capacity"`
	Status       RoomStatus `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Room) TableName() string {
	return "rooms"
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RoomStatusAvailable
	}
	return nil
}
