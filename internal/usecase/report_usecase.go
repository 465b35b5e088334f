package usecase

import (
	"bytes"
	"context"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReportUsecase renders admin exports over an inclusive day range.
type ReportUsecase interface {
	ExportAppointments(ctx context.Context, dateFrom, dateTo string) (*bytes.Buffer, error)
	ExportPayments(ctx context.Context, dateFrom, dateTo string) (*bytes.Buffer, error)
}

type reportUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	paymentRepo     repository.PaymentRepository
	exportService   service.ExportService
}

func NewReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	paymentRepo repository.PaymentRepository,
	exportService service.ExportService,
) ReportUsecase {
	return &reportUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		exportService:   exportService,
	}
}

func (u *reportUsecase) ExportAppointments(ctx context.Context, dateFrom, dateTo string) (*bytes.Buffer, error) {
	from, to, err := parseDateRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.List(u.db.WithContext(ctx), entity.AppointmentFilter{DateFrom: from, DateTo: to})
	if err != nil {
		u.log.Warnf("Failed to list appointments for export: %+v", err)
		return nil, err
	}

	buf, err := u.exportService.Appointments(appointments)
	if err != nil {
		u.log.Errorf("Failed to render appointment export: %+v", err)
		return nil, err
	}
	return buf, nil
}

func (u *reportUsecase) ExportPayments(ctx context.Context, dateFrom, dateTo string) (*bytes.Buffer, error) {
	from, to, err := parseDateRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	payments, err := u.paymentRepo.List(u.db.WithContext(ctx), entity.PaymentFilter{DateFrom: from, DateTo: exclusiveEnd(to)})
	if err != nil {
		u.log.Warnf("Failed to list payments for export: %+v", err)
		return nil, err
	}

	buf, err := u.exportService.Payments(payments)
	if err != nil {
		u.log.Errorf("Failed to render payment export: %+v", err)
		return nil, err
	}
	return buf, nil
}
