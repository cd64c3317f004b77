package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type LedgerService interface {
	GetBalance(ctx context.Context, userID int64, currency models.Currency) (decimal.Decimal, error)
	GetBalances(ctx context.Context, userID int64) (map[models.Currency]decimal.Decimal, error)
	History(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
}

type ledgerService struct {
	transactionRepo repository.TransactionRepository
}

func NewLedgerService(transactionRepo repository.TransactionRepository) *ledgerService {
	return &ledgerService{transactionRepo: transactionRepo}
}

// GetBalance is always recomputed from PERFORMED rows; balances are never cached.
func (s *ledgerService) GetBalance(ctx context.Context, userID int64, currency models.Currency) (decimal.Decimal, error) {
	tracer := otel.Tracer("ledger-service")
	ctx, span := tracer.Start(ctx, "GetBalance")
	defer span.End()

	if !currency.Valid() {
		span.SetStatus(codes.Error, "invalid currency")
		return decimal.Zero, pkgerrors.ErrInvalidCurrency
	}

	balance, err := s.transactionRepo.GetBalance(ctx, userID, currency)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get balance")
		slog.Error("failed to get balance", "user_id", userID, "currency", currency, "error", err)
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *ledgerService) GetBalances(ctx context.Context, userID int64) (map[models.Currency]decimal.Decimal, error) {
	tracer := otel.Tracer("ledger-service")
	ctx, span := tracer.Start(ctx, "GetBalances")
	defer span.End()

	balances, err := s.transactionRepo.GetBalances(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get balances")
		slog.Error("failed to get balances", "user_id", userID, "error", err)
		return nil, err
	}
	return balances, nil
}

func (s *ledgerService) History(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	tracer := otel.Tracer("ledger-service")
	ctx, span := tracer.Start(ctx, "History")
	defer span.End()

	if filter.Currency != "" && !filter.Currency.Valid() {
		return nil, pkgerrors.ErrInvalidCurrency
	}
	for _, t := range filter.Types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %w", pkgerrors.ErrValidation, pkgerrors.ErrInvalidTransactionType)
		}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}

	transactions, err := s.transactionRepo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list transactions")
		slog.Error("failed to get transaction history", "user_id", filter.UserID, "error", err)
		return nil, err
	}

	slog.Info("transaction history retrieved", "user_id", filter.UserID, "count", len(transactions))
	return transactions, nil
}
