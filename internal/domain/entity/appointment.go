package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusCheckedIn  AppointmentStatus = "checked_in"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusCheckedIn,
	AppointmentStatusInProgress,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled:  {AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusNoShow},
	AppointmentStatusConfirmed:  {AppointmentStatusCheckedIn, AppointmentStatusCancelled, AppointmentStatusNoShow},
	AppointmentStatusCheckedIn:  {AppointmentStatusInProgress, AppointmentStatusCancelled},
	AppointmentStatusInProgress: {AppointmentStatusCompleted},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsFinal reports whether no further transition exists.
func (s AppointmentStatus) IsFinal() bool {
	return len(appointmentTransitions[s]) == 0
}

// Appointment types
const (
	AppointmentTypeConsultation = "consultation"
	AppointmentTypeFollowUp     = "follow_up"
	AppointmentTypeEmergency    = "emergency"
	AppointmentTypeWalkIn       = "walk_in"
)

// Appointment is a booked slot. ID is department coded, e.g. CARD-APT-202506-001.
type Appointment struct {
	ID              string            `gorm:"type:varchar(32);primaryKey" json:"id"`
	PatientID       string            `gorm:"type:varchar(32);not null;index" json:"patient_id"`
	DoctorID        string            `gorm:"type:varchar(32);not null;index:idx_appointments_doctor_date" json:"doctor_id"`
	DepartmentID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"department_id"`
	RoomID          *uuid.UUID        `gorm:"type:uuid" json:"room_id,omitempty"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index:idx_appointments_doctor_date" json:"appointment_date"`
	AppointmentTime string            `gorm:"type:varchar(5);not null" json:"appointment_time"`
	Type            string            `gorm:"type:varchar(20);not null;default:'consultation'" json:"type"`
	Reason          string            `gorm:"type:text" json:"reason,omitempty"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	QueueNumber     *int              `json:"queue_number,omitempty"`
	CheckedInAt     *time.Time        `json:"checked_in_at,omitempty"`
	CancelReason    string            `gorm:"type:text" json:"cancel_reason,omitempty"`
	CreatedBy       *uuid.UUID        `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient    Patient    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor     Doctor     `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Room       *Room      `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsActive reports whether the appointment still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCancelled && a.Status != AppointmentStatusNoShow
}

// IsCancellable checks if the appointment can still be cancelled
func (a *Appointment) IsCancellable() bool {
	return a.Status.CanTransitionTo(AppointmentStatusCancelled)
}

// IsReschedulable checks if the appointment can be moved to another slot
func (a *Appointment) IsReschedulable() bool {
	return a.Status == AppointmentStatusScheduled || a.Status == AppointmentStatusConfirmed
}

// StartsAt combines date and time of day in loc.
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	minutes, err := ParseClock(a.AppointmentTime)
	if err != nil {
		minutes = 0
	}
	y, m, d := a.AppointmentDate.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
}

// DateOnly truncates t to midnight UTC, the form dates are stored in.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD into a stored date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
