// Package messaging carries notification events over Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hospital-management/config"
	"hospital-management/internal/domain/entity"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// KafkaPublisher writes NotificationEvent messages to the notification topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.NotificationTopic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event entity.NotificationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode notification event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Type),
		Value: value,
		Time:  event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write notification event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// EventHandler processes one decoded event.
type EventHandler func(ctx context.Context, event entity.NotificationEvent) error

// Handler retries: handleAttempts tries, the wait doubling from handleBackoff.
const (
	handleAttempts = 5
	handleBackoff  = 200 * time.Millisecond
)

// KafkaConsumer reads the notification topic as part of a consumer group.
type KafkaConsumer struct {
	reader  *kafka.Reader
	log     *logrus.Logger
	backoff time.Duration
}

func NewKafkaConsumer(cfg config.KafkaConfig, log *logrus.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    cfg.NotificationTopic,
			GroupID:  cfg.GroupID,
			MinBytes: 1,
			MaxBytes: 10e6, // 10MB
		}),
		log:     log,
		backoff: handleBackoff,
	}
}

// Run consumes until ctx is cancelled. Offsets are committed only after the
// handler succeeds; undecodable messages are logged and skipped. A handler
// that still fails after its retries stops Run with the offset uncommitted,
// so the group resumes at that event on the next start.
func (c *KafkaConsumer) Run(ctx context.Context, handle EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("fetch notification event: %w", err)
		}

		var event entity.NotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.log.Warnf("Skipping malformed notification event at offset %d: %+v", msg.Offset, err)
		} else if err := c.deliver(ctx, handle, event, msg.Offset); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("handle notification event at offset %d: %w", msg.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Warnf("Failed to commit offset %d: %+v", msg.Offset, err)
		}
	}
}

// deliver calls handle until it succeeds, ctx ends or the attempts run out.
func (c *KafkaConsumer) deliver(ctx context.Context, handle EventHandler, event entity.NotificationEvent, offset int64) error {
	wait := c.backoff
	var err error
	for attempt := 1; attempt <= handleAttempts; attempt++ {
		if err = handle(ctx, event); err == nil {
			return nil
		}
		c.log.Warnf("Failed to handle notification event at offset %d (attempt %d/%d): %+v", offset, attempt, handleAttempts, err)
		if attempt == handleAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return err
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
