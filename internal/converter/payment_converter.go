package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/samber/lo"
)

func PaymentToResponse(p *entity.Payment) *dto.PaymentResponse {
	if p == nil {
		return nil
	}

	return &dto.PaymentResponse{
		ID:             p.ID,
		AppointmentID:  p.AppointmentID,
		PatientID:      p.PatientID,
		PatientName:    p.Patient.FullName,
		Amount:         p.Amount,
		Method:         p.Method,
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		Notes:          p.Notes,
		PaidAt:         p.PaidAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func PaymentsToResponses(payments []entity.Payment) []dto.PaymentResponse {
	return lo.Map(payments, func(p entity.Payment, _ int) dto.PaymentResponse {
		return *PaymentToResponse(&p)
	})
}

func MethodTotalsToResponses(totals []entity.MethodTotal) []dto.MethodTotalResponse {
	return lo.Map(totals, func(t entity.MethodTotal, _ int) dto.MethodTotalResponse {
		return dto.MethodTotalResponse{Method: t.Method, Total: t.Total, Count: t.Count}
	})
}
