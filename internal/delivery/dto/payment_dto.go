package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

// CreatePaymentRequest charges an appointment. A nil amount means the doctor's fee.
type CreatePaymentRequest struct {
	AppointmentID  string           `json:"appointment_id" validate:"required,hms_id=appointment"`
	Amount         *decimal.Decimal `json:"amount"`
	Method         string           `json:"method" validate:"required,oneof=cash card insurance transfer"`
	TransactionRef string           `json:"transaction_ref" validate:"omitempty,max=100"`
	Notes          string           `json:"notes" validate:"omitempty,max=1000"`
	MarkPaid       bool             `json:"mark_paid"`
}

type UpdatePaymentStatusRequest struct {
	Status         string `json:"status" validate:"required,oneof=paid failed cancelled refunded"`
	TransactionRef string `json:"transaction_ref" validate:"omitempty,max=100"`
}

type PaymentListQuery struct {
	Status        string `validate:"omitempty,oneof=pending paid failed cancelled refunded"`
	PatientID     string `validate:"omitempty,hms_id=patient"`
	AppointmentID string `validate:"omitempty,hms_id=appointment"`
	DateFrom      string `validate:"omitempty,date_ymd"`
	DateTo        string `validate:"omitempty,date_ymd"`
	Page          int
	Limit         int
}

// Response DTOs

type PaymentResponse struct {
	ID             string          `json:"id"`
	AppointmentID  string          `json:"appointment_id"`
	PatientID      string          `json:"patient_id"`
	PatientName    string          `json:"patient_name,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	Status         string          `json:"status"`
	TransactionRef string          `json:"transaction_ref,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type MethodTotalResponse struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
	Count  int64           `json:"count"`
}

type PaymentSummaryResponse struct {
	DateFrom      string                `json:"date_from,omitempty"`
	DateTo        string                `json:"date_to,omitempty"`
	TotalRevenue  decimal.Decimal       `json:"total_revenue"`
	PaidCount     int64                 `json:"paid_count"`
	RefundedTotal decimal.Decimal       `json:"refunded_total"`
	RefundedCount int64                 `json:"refunded_count"`
	ByMethod      []MethodTotalResponse `json:"by_method"`
}
