package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/honeynil/KeecashLedger/internal/infrastructure/kafka"
	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/shopspring/decimal"
)

const sendRetries = 3

// notifier publishes user notifications and emails. Delivery failures are
// logged and never fail the ledger operation that triggered them.
type notifier struct {
	producer kafka.KafkaProducer
	backoff  time.Duration
}

func newNotifier(producer kafka.KafkaProducer) *notifier {
	return &notifier{producer: producer, backoff: time.Second}
}

func (n *notifier) notify(ctx context.Context, userID int64, typ models.NotificationType, amount decimal.Decimal, currency models.Currency) {
	n.publish(ctx, kafka.TopicNotifications, userID, models.Notification{
		UserID:    userID,
		Type:      typ,
		Amount:    amount,
		Currency:  currency,
		CreatedAt: time.Now().UTC(),
	})
}

func (n *notifier) email(ctx context.Context, userID int64, email models.Email) {
	n.publish(ctx, kafka.TopicEmails, userID, email)
}

func (n *notifier) publish(ctx context.Context, topic string, userID int64, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal kafka event", "topic", topic, "user_id", userID, "error", err)
		return
	}

	ctx = context.WithoutCancel(ctx)
	for i := 0; i < sendRetries; i++ {
		if err = n.producer.Send(ctx, topic, userID, payload); err == nil {
			return
		}
		if i < sendRetries-1 {
			time.Sleep(n.backoff * time.Duration(i+1))
		}
	}
	slog.Error("failed to send kafka event after retries", "topic", topic, "user_id", userID, "error", err)
}
