package repository

import (
	"context"

	"github.com/honeynil/KeecashLedger/internal/models"
)

type BeneficiaryRepository interface {
	WalletExists(ctx context.Context, userID int64, address string) (bool, error)
	CreateWallet(ctx context.Context, wallet *models.BeneficiaryWallet) error
	CreateUser(ctx context.Context, beneficiary *models.BeneficiaryUser) error
}
