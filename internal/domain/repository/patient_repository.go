package repository

import (
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id string) (*entity.Patient, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Patient, error)
	FindAll(db *gorm.DB, filter entity.PatientFilter, page entity.Pagination) ([]entity.Patient, int64, error)
	Update(db *gorm.DB, patient *entity.Patient) error
	Delete(db *gorm.DB, id string) (int64, error)
	CountCreatedBetween(db *gorm.DB, from, to time.Time) (int64, error)
}

type MedicalRecordRepository interface {
	Create(db *gorm.DB, record *entity.MedicalRecord) error
	FindByID(db *gorm.DB, id string) (*entity.MedicalRecord, error)
	FindByPatientID(db *gorm.DB, patientID string, page entity.Pagination) ([]entity.MedicalRecord, int64, error)
	Update(db *gorm.DB, record *entity.MedicalRecord) error
	CreateAttachment(db *gorm.DB, attachment *entity.MedicalRecordAttachment) error
	FindAttachments(db *gorm.DB, recordID string) ([]entity.MedicalRecordAttachment, error)
}
