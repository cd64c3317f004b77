package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type PostgresBeneficiaryRepository struct {
	db *sql.DB
}

func NewPostgresBeneficiaryRepository(db *sql.DB) *PostgresBeneficiaryRepository {
	return &PostgresBeneficiaryRepository{db: db}
}

func (r *PostgresBeneficiaryRepository) WalletExists(ctx context.Context, userID int64, address string) (bool, error) {
	var err error
	tracer := otel.Tracer("beneficiary-repository")
	ctx, span := tracer.Start(ctx, "WalletExists")
	span.SetAttributes(attribute.Int64("user_id", userID))
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "WalletExists", start, err) }()

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM beneficiary_wallets WHERE user_id = $1 AND address = $2)`
	if err = r.db.QueryRowContext(ctx, query, userID, address).Scan(&exists); err != nil {
		slog.Error("failed to check beneficiary wallet", "method", "WalletExists", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to check beneficiary wallet: %w", err)
	}
	return exists, nil
}

func (r *PostgresBeneficiaryRepository) CreateWallet(ctx context.Context, wallet *models.BeneficiaryWallet) error {
	var err error
	tracer := otel.Tracer("beneficiary-repository")
	ctx, span := tracer.Start(ctx, "CreateBeneficiaryWallet")
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "CreateBeneficiaryWallet", start, err) }()

	if wallet == nil || wallet.Address == "" {
		err = pkgerrors.ErrInvalidCryptoAddress
		return err
	}

	query := `INSERT INTO beneficiary_wallets (user_id, address, name, type) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query, wallet.UserID, wallet.Address, wallet.Name, wallet.Type).Scan(&wallet.ID, &wallet.CreatedAt)
	if err != nil {
		slog.Error("failed to create beneficiary wallet", "method", "CreateBeneficiaryWallet", "user_id", wallet.UserID, "error", err)
		return fmt.Errorf("failed to create beneficiary wallet: %w", err)
	}

	slog.Info("beneficiary wallet created", "method", "CreateBeneficiaryWallet", "id", wallet.ID, "user_id", wallet.UserID)
	return nil
}

// CreateUser saves a payee for the payer; saving the same pair twice is a no-op.
func (r *PostgresBeneficiaryRepository) CreateUser(ctx context.Context, beneficiary *models.BeneficiaryUser) error {
	var err error
	tracer := otel.Tracer("beneficiary-repository")
	ctx, span := tracer.Start(ctx, "CreateBeneficiaryUser")
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "CreateBeneficiaryUser", start, err) }()

	if beneficiary == nil || beneficiary.PayerID == beneficiary.PayeeID {
		err = pkgerrors.ErrSelfTransfer
		return err
	}

	query := `INSERT INTO beneficiary_users (payer_id, payee_id) VALUES ($1, $2) ON CONFLICT (payer_id, payee_id) DO NOTHING`
	if _, err = r.db.ExecContext(ctx, query, beneficiary.PayerID, beneficiary.PayeeID); err != nil {
		slog.Error("failed to create beneficiary user", "method", "CreateBeneficiaryUser", "payer_id", beneficiary.PayerID, "error", err)
		return fmt.Errorf("failed to create beneficiary user: %w", err)
	}
	return nil
}
