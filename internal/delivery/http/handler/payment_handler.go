package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
	}
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	payment, err := h.paymentUsecase.CreatePayment(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to create payment")
		return
	}

	response.Success(w, http.StatusCreated, "Payment created successfully", payment)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination(r)
	query := dto.PaymentListQuery{
		Status:        q.Get("status"),
		PatientID:     q.Get("patient_id"),
		AppointmentID: q.Get("appointment_id"),
		DateFrom:      q.Get("date_from"),
		DateTo:        q.Get("date_to"),
		Page:          page.Page,
		Limit:         page.Limit,
	}
	if !validateQuery(w, h.validator, &query) {
		return
	}

	payments, total, err := h.paymentUsecase.ListPayments(r.Context(), query)
	if err != nil {
		writeError(w, err, "Failed to get payments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Payments retrieved successfully", payments, pageMeta(page, total))
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "payment", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentUsecase.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get payment")
		return
	}

	response.Success(w, http.StatusOK, "Payment retrieved successfully", payment)
}

func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "payment", "payment")
	if !ok {
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	payment, err := h.paymentUsecase.UpdateStatus(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update payment status")
		return
	}

	response.Success(w, http.StatusOK, "Payment status updated successfully", payment)
}

func (h *PaymentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary, err := h.paymentUsecase.Summary(r.Context(), q.Get("date_from"), q.Get("date_to"))
	if err != nil {
		writeError(w, err, "Failed to get payment summary")
		return
	}

	response.Success(w, http.StatusOK, "Payment summary retrieved successfully", summary)
}
