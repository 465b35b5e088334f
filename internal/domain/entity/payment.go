package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment methods
const (
	PaymentMethodCash      = "cash"
	PaymentMethodCard      = "card"
	PaymentMethodInsurance = "insurance"
	PaymentMethodTransfer  = "transfer"
)

var PaymentMethods = []string{PaymentMethodCash, PaymentMethodCard, PaymentMethodInsurance, PaymentMethodTransfer}

// Payment is a charge for an appointment, e.g. PAY-202506-001.
type Payment struct {
	ID             string          `gorm:"type:varchar(32);primaryKey" json:"id"`
	AppointmentID  string          `gorm:"type:varchar(32);not null;index" json:"appointment_id"`
	PatientID      string          `gorm:"type:varchar(32);not null;index" json:"patient_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method         string          `gorm:"type:varchar(20);not null" json:"method"`
	Status         PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TransactionRef string          `gorm:"type:varchar(100)" json:"transaction_ref,omitempty"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`
	PaidAt         *time.Time      `gorm:"index" json:"paid_at,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient     Patient     `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// MethodTotal is one row of the per-method revenue breakdown.
type MethodTotal struct {
	Method string
	Total  decimal.Decimal
	Count  int64
}
