package repository

import (
	"context"

	"github.com/honeynil/KeecashLedger/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
}
