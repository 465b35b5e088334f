package entity

import (
	"time"

	"github.com/google/uuid"
)

// Filters below are domain-level query filters used by the repository layer
// so it does not depend on delivery DTOs.

// Pagination is a 1-based page window.
type Pagination struct {
	Page  int
	Limit int
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Normalize clamps page and limit into usable values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

type DoctorFilter struct {
	DepartmentID *uuid.UUID
	SpecialtyID  *uuid.UUID
	Search       string // doctor name, case-insensitive
	Available    *bool
}

type PatientFilter struct {
	Search string // name, phone or patient ID
}

type RoomFilter struct {
	DepartmentID *uuid.UUID
	Status       RoomStatus
	Type         string
}

type AppointmentFilter struct {
	Status       AppointmentStatus
	DoctorID     string
	PatientID    string
	DepartmentID *uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
}

type PaymentFilter struct {
	Status        PaymentStatus
	PatientID     string
	AppointmentID string
	DateFrom      *time.Time
	DateTo        *time.Time
}

type NotificationFilter struct {
	UserID     uuid.UUID
	UnreadOnly bool
}

type AuditLogFilter struct {
	UserID *uuid.UUID
	Action string
}
