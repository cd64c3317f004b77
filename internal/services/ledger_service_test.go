package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/KeecashLedger/internal/models"
	repositorymocks "github.com/honeynil/KeecashLedger/internal/repository/mocks"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_GetBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := repositorymocks.NewMockTransactionRepository(ctrl)
	svc := NewLedgerService(repo)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo.EXPECT().GetBalance(gomock.Any(), int64(1), models.CurrencyEUR).Return(decimal.RequireFromString("97.50"), nil)

		balance, err := svc.GetBalance(ctx, 1, models.CurrencyEUR)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.RequireFromString("97.5")))
	})

	t.Run("InvalidCurrency", func(t *testing.T) {
		balance, err := svc.GetBalance(ctx, 1, "GBP")
		assert.True(t, balance.IsZero())
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCurrency)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo.EXPECT().GetBalance(gomock.Any(), int64(1), models.CurrencyUSD).Return(decimal.Zero, errors.New("db down"))

		_, err := svc.GetBalance(ctx, 1, models.CurrencyUSD)
		assert.EqualError(t, err, "db down")
	})
}

func TestLedgerService_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := repositorymocks.NewMockTransactionRepository(ctrl)
	svc := NewLedgerService(repo)
	ctx := context.Background()

	t.Run("DefaultLimit", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any(), models.TransactionFilter{UserID: 1, Limit: defaultHistoryLimit}).
			Return([]models.Transaction{{ID: 1}, {ID: 2}}, nil)

		txs, err := svc.History(ctx, models.TransactionFilter{UserID: 1})
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})

	t.Run("LimitIsCapped", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any(), models.TransactionFilter{UserID: 1, Limit: maxHistoryLimit}).Return(nil, nil)

		_, err := svc.History(ctx, models.TransactionFilter{UserID: 1, Limit: 5000})
		assert.NoError(t, err)
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := svc.History(ctx, models.TransactionFilter{UserID: 1, Types: []models.TransactionType{"GIFT"}})
		assert.ErrorIs(t, err, pkgerrors.ErrValidation)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidTransactionType)
	})

	t.Run("UnknownCurrency", func(t *testing.T) {
		_, err := svc.History(ctx, models.TransactionFilter{UserID: 1, Currency: "GBP"})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCurrency)
	})
}
