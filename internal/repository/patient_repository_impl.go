package repository

import (
	"time"

	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Omit(clause.Associations).Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id string) (*entity.Patient, error) {
	var patient entity.Patient
	found, err := first(db.Where("id = ?", id), &patient)
	if err != nil || !found {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	found, err := first(db.Where("user_id = ?", userID), &patient)
	if err != nil || !found {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) filtered(db *gorm.DB, filter entity.PatientFilter) *gorm.DB {
	query := db.Model(&entity.Patient{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(full_name) LIKE LOWER(?) OR phone LIKE ? OR id LIKE ?",
			pattern, pattern, pattern,
		)
	}
	return query
}

func (r *patientRepository) FindAll(db *gorm.DB, filter entity.PatientFilter, page entity.Pagination) ([]entity.Patient, int64, error) {
	var total int64
	if err := r.filtered(db, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var patients []entity.Patient
	err := paginate(r.filtered(db, filter), page).Order("created_at DESC, id DESC").Find(&patients).Error
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *patientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return db.Omit(clause.Associations).Save(patient).Error
}

func (r *patientRepository) Delete(db *gorm.DB, id string) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Patient{})
	return result.RowsAffected, result.Error
}

func (r *patientRepository) CountCreatedBetween(db *gorm.DB, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.Patient{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

type medicalRecordRepository struct{}

func NewMedicalRecordRepository() domainRepo.MedicalRecordRepository {
	return &medicalRecordRepository{}
}

func (r *medicalRecordRepository) Create(db *gorm.DB, record *entity.MedicalRecord) error {
	return db.Omit(clause.Associations).Create(record).Error
}

func (r *medicalRecordRepository) FindByID(db *gorm.DB, id string) (*entity.MedicalRecord, error) {
	var record entity.MedicalRecord
	query := db.Preload("Patient").Preload("Doctor.User").Preload("Attachments").Where("id = ?", id)
	found, err := first(query, &record)
	if err != nil || !found {
		return nil, err
	}
	return &record, nil
}

func (r *medicalRecordRepository) FindByPatientID(db *gorm.DB, patientID string, page entity.Pagination) ([]entity.MedicalRecord, int64, error) {
	var total int64
	if err := db.Model(&entity.MedicalRecord{}).Where("patient_id = ?", patientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []entity.MedicalRecord
	err := paginate(db.Where("patient_id = ?", patientID), page).
		Preload("Doctor.User").
		Order("visit_date DESC, created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *medicalRecordRepository) Update(db *gorm.DB, record *entity.MedicalRecord) error {
	return db.Omit(clause.Associations).Save(record).Error
}

func (r *medicalRecordRepository) CreateAttachment(db *gorm.DB, attachment *entity.MedicalRecordAttachment) error {
	return db.Create(attachment).Error
}

func (r *medicalRecordRepository) FindAttachments(db *gorm.DB, recordID string) ([]entity.MedicalRecordAttachment, error) {
	var attachments []entity.MedicalRecordAttachment
	err := db.Where("medical_record_id = ?", recordID).Order("created_at ASC").Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}
