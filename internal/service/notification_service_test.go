package service

import (
	"context"
	"testing"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/repository"
	"hospital-management/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationWriter_Persist(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db)
	writer := NewNotificationWriter(db, testutil.NewLogger(), repository.NewNotificationRepository())

	alice := fx.User(entity.RoleIDPatient, "alice@example.com", "x")
	bob := fx.User(entity.RoleIDDoctor, "bob@example.com", "x")

	event := NewEvent(entity.NotificationTypeAppointment, "Booked", "Your appointment is booked",
		map[string]interface{}{"appointment_id": "CARD-APT-202506-001"},
		&alice.ID, &bob.ID, &alice.ID, nil)
	require.Len(t, event.UserIDs, 3)

	require.NoError(t, NewDirectPublisher(writer).Publish(context.Background(), event))

	var rows []entity.Notification
	require.NoError(t, db.Order("user_id").Find(&rows).Error)
	assert.Len(t, rows, 2, "duplicate recipients collapse")
	for _, n := range rows {
		assert.Equal(t, "Booked", n.Title)
		assert.Equal(t, "CARD-APT-202506-001", n.Metadata["appointment_id"])
		assert.False(t, n.IsRead)
	}
}

func TestNotificationWriter_NoRecipients(t *testing.T) {
	db := testutil.NewTestDB(t)
	writer := NewNotificationWriter(db, testutil.NewLogger(), repository.NewNotificationRepository())

	err := writer.Persist(context.Background(), entity.NotificationEvent{UserIDs: []uuid.UUID{uuid.Nil}, Title: "x", Message: "y"})
	require.NoError(t, err)

	var count int64
	db.Model(&entity.Notification{}).Count(&count)
	assert.Zero(t, count)
}
