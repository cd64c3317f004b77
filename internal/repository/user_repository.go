package repository

import (
	"context"

	"github.com/honeynil/KeecashLedger/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByReferralID(ctx context.Context, referralID string) (*models.User, error)
	GetByCardholderID(ctx context.Context, cardholderID string) (*models.User, error)
	SetCardholderVerified(ctx context.Context, cardholderID string) error
}
