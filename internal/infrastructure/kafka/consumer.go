package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// maxRetryBackoff caps the wait between attempts to store one notification.
const maxRetryBackoff = 30 * time.Second

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer persists notification events published by the services.
type Consumer struct {
	reader           messageReader
	notificationRepo repository.NotificationRepository
	retryBackoff     time.Duration
}

func NewConsumer(brokers []string, groupID string, notificationRepo repository.NotificationRepository) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    TopicNotifications,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		notificationRepo: notificationRepo,
		retryBackoff:     time.Second,
	}
}

// Consume blocks until ctx is cancelled. An offset is committed only once its
// notification is stored or dropped as malformed.
func (c *Consumer) Consume(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				slog.Info("notification consumer stopped")
				return
			}
			slog.Error("failed to read Kafka message", "topic", TopicNotifications, "error", err)
			continue
		}

		if !c.process(ctx, msg) {
			slog.Info("notification consumer stopped", "uncommitted_offset", msg.Offset)
			return
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			slog.Error("failed to commit Kafka offset", "topic", TopicNotifications, "offset", msg.Offset, "error", err)
		}
	}
}

// process retries msg until it is handled. It reports false when ctx ends first.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	backoff := c.retryBackoff
	for {
		err := c.HandleMessage(ctx, msg)
		if err == nil {
			return true
		}
		if errors.Is(err, pkgerrors.ErrInvalidPayload) {
			// No dead-letter topic yet.
			slog.Error("dropping malformed notification", "key", string(msg.Key), "offset", msg.Offset, "error", err)
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		slog.Error("failed to store notification, retrying", "key", string(msg.Key), "offset", msg.Offset, "retry_in", backoff, "error", err)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxRetryBackoff)
	}
}

func (c *Consumer) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var n models.Notification
	if err := json.Unmarshal(msg.Value, &n); err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrInvalidPayload, err)
	}
	if n.UserID == 0 || !n.Type.Valid() {
		return fmt.Errorf("%w: notification without user or type", pkgerrors.ErrInvalidPayload)
	}

	if err := c.notificationRepo.Create(ctx, &n); err != nil {
		return err
	}

	slog.Info("notification stored", "user_id", n.UserID, "type", n.Type, "notification_id", n.ID)
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
