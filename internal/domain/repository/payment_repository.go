package repository

import (
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(db *gorm.DB, payment *entity.Payment) error
	FindByID(db *gorm.DB, id string) (*entity.Payment, error)
	FindAll(db *gorm.DB, filter entity.PaymentFilter, page entity.Pagination) ([]entity.Payment, int64, error)
	List(db *gorm.DB, filter entity.PaymentFilter) ([]entity.Payment, error)
	Update(db *gorm.DB, payment *entity.Payment) error
	// SumByStatus totals payments in a status whose relevant timestamp falls in [from, to).
	SumByStatus(db *gorm.DB, status entity.PaymentStatus, from, to *time.Time) (decimal.Decimal, int64, error)
	TotalsByMethod(db *gorm.DB, from, to *time.Time) ([]entity.MethodTotal, error)
}
