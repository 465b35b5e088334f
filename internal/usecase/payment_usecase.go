package usecase

import (
	"context"
	"errors"
	"fmt"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"
	"hospital-management/pkg/idgen"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrAppointmentNotPayable    = errors.New("cancelled appointments cannot be charged")
	ErrInvalidPaymentAmount     = errors.New("amount must be greater than zero")
	ErrInvalidPaymentTransition = errors.New("invalid payment status transition")
)

type PaymentUsecase interface {
	CreatePayment(ctx context.Context, actor Actor, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, query dto.PaymentListQuery) ([]dto.PaymentResponse, int64, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, req *dto.UpdatePaymentStatusRequest) (*dto.PaymentResponse, error)
	Summary(ctx context.Context, dateFrom, dateTo string) (*dto.PaymentSummaryResponse, error)
}

type paymentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	paymentRepo     repository.PaymentRepository
	appointmentRepo repository.AppointmentRepository
	sequenceRepo    repository.SequenceRepository
	auditService    service.AuditService
	publisher       service.NotificationPublisher
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	paymentRepo repository.PaymentRepository,
	appointmentRepo repository.AppointmentRepository,
	sequenceRepo repository.SequenceRepository,
	auditService service.AuditService,
	publisher service.NotificationPublisher,
) PaymentUsecase {
	return &paymentUsecase{
		db:              db,
		log:             log,
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		sequenceRepo:    sequenceRepo,
		auditService:    auditService,
		publisher:       publisher,
	}
}

func (u *paymentUsecase) CreatePayment(ctx context.Context, actor Actor, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.Status == entity.AppointmentStatusCancelled {
		return nil, ErrAppointmentNotPayable
	}

	amount := appointment.Doctor.ConsultationFee
	if req.Amount != nil {
		amount = *req.Amount
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidPaymentAmount
	}

	paymentID, err := nextID(tx, u.sequenceRepo, idgen.KindPayment, "")
	if err != nil {
		u.log.Warnf("Failed to allocate payment ID: %+v", err)
		return nil, err
	}

	payment := &entity.Payment{
		ID:             paymentID,
		AppointmentID:  appointment.ID,
		PatientID:      appointment.PatientID,
		Amount:         amount.Round(2),
		Method:         req.Method,
		Status:         entity.PaymentStatusPending,
		TransactionRef: req.TransactionRef,
		Notes:          req.Notes,
	}
	if req.MarkPaid {
		paidAt := now()
		payment.Status = entity.PaymentStatusPaid
		payment.PaidAt = &paidAt
	}
	if err := u.paymentRepo.Create(tx, payment); err != nil {
		u.log.Warnf("Failed to create payment: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, actor.ref(), entity.AuditActionPaymentCreate, "payment", payment.ID, payment)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	payment.Patient = appointment.Patient
	u.notify(ctx, payment)
	return converter.PaymentToResponse(payment), nil
}

func (u *paymentUsecase) notify(ctx context.Context, payment *entity.Payment) {
	if u.publisher == nil || payment.Patient.UserID == nil {
		return
	}
	event := service.NewEvent(
		entity.NotificationTypePayment,
		"Payment "+string(payment.Status),
		fmt.Sprintf("Payment %s of %s is %s.", payment.ID, payment.Amount.StringFixed(2), payment.Status),
		map[string]interface{}{
			"payment_id":     payment.ID,
			"appointment_id": payment.AppointmentID,
			"status":         string(payment.Status),
		},
		payment.Patient.UserID,
	)
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish notification for payment %s: %+v", payment.ID, err)
	}
}

func (u *paymentUsecase) ListPayments(ctx context.Context, query dto.PaymentListQuery) ([]dto.PaymentResponse, int64, error) {
	from, to, err := parseDateRange(query.DateFrom, query.DateTo)
	if err != nil {
		return nil, 0, err
	}

	filter := entity.PaymentFilter{
		Status:        entity.PaymentStatus(query.Status),
		PatientID:     query.PatientID,
		AppointmentID: query.AppointmentID,
		DateFrom:      from,
		DateTo:        exclusiveEnd(to),
	}
	page := entity.Pagination{Page: query.Page, Limit: query.Limit}

	payments, total, err := u.paymentRepo.FindAll(u.db.WithContext(ctx), filter, page)
	if err != nil {
		u.log.Warnf("Failed to find payments: %+v", err)
		return nil, 0, err
	}
	return converter.PaymentsToResponses(payments), total, nil
}

func (u *paymentUsecase) findPayment(db *gorm.DB, id string) (*entity.Payment, error) {
	payment, err := u.paymentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find payment by ID: %+v", err)
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

func (u *paymentUsecase) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	payment, err := u.findPayment(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return converter.PaymentToResponse(payment), nil
}

func (u *paymentUsecase) UpdateStatus(ctx context.Context, actor Actor, id string, req *dto.UpdatePaymentStatusRequest) (*dto.PaymentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	payment, err := u.findPayment(tx, id)
	if err != nil {
		return nil, err
	}

	next := entity.PaymentStatus(req.Status)
	if !payment.Status.CanTransitionTo(next) {
		return nil, ErrInvalidPaymentTransition
	}

	before := payment.Status
	payment.Status = next
	if next == entity.PaymentStatusPaid {
		paidAt := now()
		payment.PaidAt = &paidAt
	}
	if req.TransactionRef != "" {
		payment.TransactionRef = req.TransactionRef
	}

	if err := u.paymentRepo.Update(tx, payment); err != nil {
		u.log.Warnf("Failed to update payment status: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, actor.ref(), entity.AuditActionPaymentStatus, "payment", payment.ID, before, payment.Status)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notify(ctx, payment)
	return converter.PaymentToResponse(payment), nil
}

// Summary totals paid and refunded money of the inclusive day range. Paid
// money is attributed to the day it was paid.
func (u *paymentUsecase) Summary(ctx context.Context, dateFrom, dateTo string) (*dto.PaymentSummaryResponse, error) {
	from, to, err := parseDateRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	end := exclusiveEnd(to)

	db := u.db.WithContext(ctx)
	revenue, paidCount, err := u.paymentRepo.SumByStatus(db, entity.PaymentStatusPaid, from, end)
	if err != nil {
		u.log.Warnf("Failed to sum paid payments: %+v", err)
		return nil, err
	}
	refunded, refundedCount, err := u.paymentRepo.SumByStatus(db, entity.PaymentStatusRefunded, from, end)
	if err != nil {
		u.log.Warnf("Failed to sum refunded payments: %+v", err)
		return nil, err
	}
	byMethod, err := u.paymentRepo.TotalsByMethod(db, from, end)
	if err != nil {
		u.log.Warnf("Failed to total payments by method: %+v", err)
		return nil, err
	}

	return &dto.PaymentSummaryResponse{
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		TotalRevenue:  revenue,
		PaidCount:     paidCount,
		RefundedTotal: refunded,
		RefundedCount: refundedCount,
		ByMethod:      converter.MethodTotalsToResponses(byMethod),
	}, nil
}
