//go:build integration

package messaging_test

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"hospital-management/config"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/infrastructure/messaging"
	"hospital-management/internal/repository"
	"hospital-management/internal/service"
	"hospital-management/internal/testutil"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

// startKafka runs a single broker and returns its bootstrap addresses.
func startKafka(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("hms-test"))
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	return brokers
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func TestKafka_PublishedEventsArePersisted(t *testing.T) {
	cfg := config.KafkaConfig{
		Brokers:           startKafka(t),
		NotificationTopic: "hms.notifications",
		GroupID:           "hms-notification-test",
	}
	createTopic(t, cfg.Brokers[0], cfg.NotificationTopic)

	db := testutil.NewTestDB(t)
	log := testutil.NewLogger()
	writer := service.NewNotificationWriter(db, log, repository.NewNotificationRepository())

	publisher := messaging.NewKafkaPublisher(cfg)
	defer publisher.Close()

	patient, doctor := uuid.New(), uuid.New()
	event := service.NewEvent(entity.NotificationTypeAppointment, "Appointment booked",
		"CARD-APT-202506-001 on 2025-06-30 at 09:30.",
		map[string]interface{}{"appointment_id": "CARD-APT-202506-001"},
		&patient, &doctor)

	publishCtx, cancelPublish := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelPublish()
	require.NoError(t, publisher.Publish(publishCtx, event))

	consumer := messaging.NewKafkaConsumer(cfg, log)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx, writer.Persist) }()

	require.Eventually(t, func() bool {
		var count int64
		db.Model(&entity.Notification{}).Count(&count)
		return count == 2
	}, 60*time.Second, 250*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, consumer.Close())

	var stored entity.Notification
	require.NoError(t, db.Where("user_id = ?", patient).First(&stored).Error)
	assert.Equal(t, "Appointment booked", stored.Title)
	assert.Equal(t, entity.NotificationTypeAppointment, stored.Type)
	assert.Equal(t, "CARD-APT-202506-001", stored.Metadata["appointment_id"])
}
