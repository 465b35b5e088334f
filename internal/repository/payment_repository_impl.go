package repository

import (
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct{}

func NewPaymentRepository() domainRepo.PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(db *gorm.DB, payment *entity.Payment) error {
	return db.Omit(clause.Associations).Create(payment).Error
}

func (r *paymentRepository) FindByID(db *gorm.DB, id string) (*entity.Payment, error) {
	var payment entity.Payment
	found, err := first(db.Preload("Patient").Preload("Appointment").Where("id = ?", id), &payment)
	if err != nil || !found {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) filtered(db *gorm.DB, filter entity.PaymentFilter) *gorm.DB {
	query := db.Model(&entity.Payment{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PatientID != "" {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if filter.AppointmentID != "" {
		query = query.Where("appointment_id = ?", filter.AppointmentID)
	}
	return withinPeriod(query, "created_at", filter.DateFrom, filter.DateTo)
}

// withinPeriod restricts column to [from, to). Either bound may be nil.
func withinPeriod(db *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		db = db.Where(column+" >= ?", *from)
	}
	if to != nil {
		db = db.Where(column+" < ?", *to)
	}
	return db
}

func (r *paymentRepository) FindAll(db *gorm.DB, filter entity.PaymentFilter, page entity.Pagination) ([]entity.Payment, int64, error) {
	var total int64
	if err := r.filtered(db, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []entity.Payment
	err := paginate(r.filtered(db, filter), page).
		Preload("Patient").
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *paymentRepository) List(db *gorm.DB, filter entity.PaymentFilter) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.filtered(db, filter).Preload("Patient").Order("created_at ASC").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) Update(db *gorm.DB, payment *entity.Payment) error {
	return db.Omit(clause.Associations).Save(payment).Error
}

func (r *paymentRepository) SumByStatus(db *gorm.DB, status entity.PaymentStatus, from, to *time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	query := db.Model(&entity.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("status = ?", status)
	err := withinPeriod(query, "COALESCE(paid_at, created_at)", from, to).Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Count, nil
}

func (r *paymentRepository) TotalsByMethod(db *gorm.DB, from, to *time.Time) ([]entity.MethodTotal, error) {
	var totals []entity.MethodTotal
	query := db.Model(&entity.Payment{}).
		Select("method, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("status = ?", entity.PaymentStatusPaid)
	err := withinPeriod(query, "COALESCE(paid_at, created_at)", from, to).
		Group("method").
		Order("method ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
