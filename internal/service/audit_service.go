package service

import (
	"context"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService writes audit rows inside the caller's transaction. A failed
// audit write is rolled back to a savepoint and logged; it never aborts the
// business operation.
type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{})
	LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{})
	LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{})
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) {
	s.write(ctx, tx, userID, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) {
	s.write(ctx, tx, userID, action, entityName, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) {
	s.write(ctx, tx, userID, action, entityName, entityID, oldValue, nil)
}

const auditSavepoint = "audit_log"

func (s *auditService) write(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) {
	auditLog := &entity.AuditLog{
		UserID: userID,
		Action: action,
		Metadata: datatypes.JSONMap{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	tx = tx.WithContext(ctx)
	if err := tx.SavePoint(auditSavepoint).Error; err != nil {
		s.log.Warnf("Failed to create audit savepoint for %s: %+v", action, err)
		return
	}
	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log for %s %s: %+v", entityName, entityID, err)
		if rbErr := tx.RollbackTo(auditSavepoint).Error; rbErr != nil {
			s.log.Warnf("Failed to roll back audit savepoint: %+v", rbErr)
		}
	}
}
