package repository

import (
	"context"

	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/shopspring/decimal"
)

// BalanceCheck asks for the PERFORMED balance of UserID in Currency to be at
// least Required at the moment the rows are written.
type BalanceCheck struct {
	UserID   int64
	Currency models.Currency
	Required decimal.Decimal
}

// TransitionMatch selects the row a provider notification refers to.
type TransitionMatch struct {
	Reference string
	Type      models.TransactionType
	From      models.TransactionStatus
}

// TransitionUpdate holds the new status and the columns to overwrite; invalid
// NullDecimals and an empty Description keep the stored value.
type TransitionUpdate struct {
	To             models.TransactionStatus
	ExchangeRate   decimal.NullDecimal
	CryptoAmount   decimal.NullDecimal
	AffectedAmount decimal.NullDecimal
	AppliedFee     decimal.NullDecimal
	FixedFee       decimal.NullDecimal
	PercentageFee  decimal.NullDecimal
	Description    string
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) (int64, error)
	CreateWithBalanceCheck(ctx context.Context, check BalanceCheck, txs []*models.Transaction) error
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	FindPending(ctx context.Context, reference string, txType models.TransactionType) (*models.Transaction, error)
	Transition(ctx context.Context, match TransitionMatch, update TransitionUpdate, extra []*models.Transaction) (bool, error)
	GetBalance(ctx context.Context, userID int64, currency models.Currency) (decimal.Decimal, error)
	GetBalances(ctx context.Context, userID int64) (map[models.Currency]decimal.Decimal, error)
	List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
}
