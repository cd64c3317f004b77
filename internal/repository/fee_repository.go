package repository

import (
	"context"

	"github.com/honeynil/KeecashLedger/internal/models"
)

type FeeRepository interface {
	FindSchedule(ctx context.Context, key models.FeeKey) (*models.FeeSchedule, error)
}
