package repository

import (
	"context"

	"github.com/honeynil/KeecashLedger/internal/models"
)

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) (int64, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Card, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Card, error)
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	SoftDelete(ctx context.Context, id int64) error
}
