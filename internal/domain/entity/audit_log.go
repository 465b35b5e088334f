package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionUserLogin          = "user.login"
	AuditActionUserLogout         = "user.logout"
	AuditActionUserRegister       = "user.register"
	AuditActionPasswordChange     = "user.password_change"
	AuditActionDepartmentCreate   = "department.create"
	AuditActionDepartmentUpdate   = "department.update"
	AuditActionDepartmentDelete   = "department.delete"
	AuditActionDoctorCreate       = "doctor.create"
	AuditActionDoctorUpdate       = "doctor.update"
	AuditActionDoctorDelete       = "doctor.delete"
	AuditActionScheduleCreate     = "schedule.create"
	AuditActionScheduleDelete     = "schedule.delete"
	AuditActionPatientCreate      = "patient.create"
	AuditActionPatientUpdate      = "patient.update"
	AuditActionPatientDelete      = "patient.delete"
	AuditActionRecordCreate       = "medical_record.create"
	AuditActionRecordUpdate       = "medical_record.update"
	AuditActionAppointmentCreate  = "appointment.create"
	AuditActionAppointmentStatus  = "appointment.status"
	AuditActionAppointmentMove    = "appointment.reschedule"
	AuditActionAppointmentCancel  = "appointment.cancel"
	AuditActionAppointmentCheckIn = "appointment.check_in"
	AuditActionPaymentCreate      = "payment.create"
	AuditActionPaymentStatus      = "payment.status"
	AuditActionReceptionistCreate = "receptionist.create"
	AuditActionReviewDelete       = "review.delete"
)
