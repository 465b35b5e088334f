package service

import (
	"context"
	"testing"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/repository"
	"hospital-management/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_LogUpdateInsideTx(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db)
	audit := NewAuditService(testutil.NewLogger(), repository.NewAuditLogRepository())
	admin := fx.User(entity.RoleIDAdmin, "admin@example.com", "x")

	tx := db.Begin()
	audit.LogUpdate(context.Background(), tx, &admin.ID, entity.AuditActionDepartmentUpdate, "department", "CARD",
		map[string]string{"name": "Cardio"}, map[string]string{"name": "Cardiology"})
	require.NoError(t, tx.Commit().Error)

	var logs []entity.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionDepartmentUpdate, logs[0].Action)
	assert.Equal(t, "department", logs[0].Metadata["entity"])
	assert.Equal(t, "CARD", logs[0].Metadata["entity_id"])
	assert.Equal(t, map[string]interface{}{"name": "Cardiology"}, logs[0].Metadata["new_value"])
}

func TestAuditService_RolledBackWithBusinessTx(t *testing.T) {
	db := testutil.NewTestDB(t)
	audit := NewAuditService(testutil.NewLogger(), repository.NewAuditLogRepository())

	tx := db.Begin()
	audit.LogCreate(context.Background(), tx, nil, entity.AuditActionPatientCreate, "patient", "PAT-202506-001", nil)
	tx.Rollback()

	var count int64
	db.Model(&entity.AuditLog{}).Count(&count)
	assert.Zero(t, count)
}
