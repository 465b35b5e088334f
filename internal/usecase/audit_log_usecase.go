package usecase

import (
	"context"
	"errors"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

type AuditLogUsecase interface {
	ListAuditLogs(ctx context.Context, filter entity.AuditLogFilter, page entity.Pagination) ([]dto.AuditLogResponse, int64, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) ListAuditLogs(ctx context.Context, filter entity.AuditLogFilter, page entity.Pagination) ([]dto.AuditLogResponse, int64, error) {
	logs, total, err := u.auditLogRepo.FindAll(u.db.WithContext(ctx), filter, page)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, 0, err
	}
	return converter.AuditLogsToResponses(logs), total, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
