package fee

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository/mocks"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func schedule(fixed, percent, min, max string) models.FeeSchedule {
	return models.FeeSchedule{
		FeeKey:     models.FeeKey{Currency: models.CurrencyEUR},
		FixedFee:   d(fixed),
		PercentFee: d(percent),
		MinAmount:  d(min),
		MaxAmount:  d(max),
	}
}

func TestCompute(t *testing.T) {
	s := schedule("1", "2", "10", "1000")

	t.Run("AddOnTop", func(t *testing.T) {
		b := Compute(s, d("100"), AddOnTop)
		assert.True(t, b.FeeApplied.Equal(d("3.00")), b.FeeApplied.String())
		assert.True(t, b.Total.Equal(d("103.00")), b.Total.String())
	})

	t.Run("DeductFrom", func(t *testing.T) {
		b := Compute(s, d("100"), DeductFrom)
		assert.True(t, b.FeeApplied.Equal(d("3")))
		assert.True(t, b.Total.Equal(d("97")))
	})

	t.Run("RoundsToCents", func(t *testing.T) {
		b := Compute(schedule("0.5", "1.25", "0", "1000"), d("33.33"), AddOnTop)
		assert.True(t, b.FeeApplied.Equal(d("0.92")), b.FeeApplied.String())
		assert.True(t, b.Total.Equal(d("34.25")), b.Total.String())
	})

	t.Run("SameInputSameOutput", func(t *testing.T) {
		assert.Equal(t, Compute(s, d("57.1"), AddOnTop), Compute(s, d("57.1"), AddOnTop))
	})
}

func TestCheckRange(t *testing.T) {
	s := schedule("0", "0", "10", "1000")
	assert.NoError(t, CheckRange(s, d("10")))
	assert.NoError(t, CheckRange(s, d("1000")))

	err := CheckRange(s, d("9.99"))
	assert.ErrorIs(t, err, pkgerrors.ErrAmountOutOfRange)
	assert.ErrorIs(t, err, pkgerrors.ErrValidation)
	assert.Contains(t, err.Error(), "Min: 10 EUR - Max: 1000 EUR")

	assert.ErrorIs(t, CheckRange(s, d("1000.01")), pkgerrors.ErrAmountOutOfRange)
}

func TestToCrypto(t *testing.T) {
	assert.True(t, ToCrypto(d("100"), d("25000"), 6).Equal(d("0.004")))
	assert.True(t, ToCrypto(d("100"), d("3"), 2).Equal(d("33.33")))
	assert.True(t, ToCrypto(d("100"), decimal.Zero, 6).IsZero())
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, AddOnTop, DirectionOf(models.OperationDeposit))
	assert.Equal(t, DeductFrom, DirectionOf(models.OperationWithdrawal))
	assert.Equal(t, DeductFrom, DirectionOf(models.OperationTransfer))
	assert.Equal(t, AddOnTop, DirectionOf(models.OperationCardTopup))
}

func TestCalculator_Quote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fees := mocks.NewMockFeeRepository(ctrl)
	calc := NewCalculator(fees, Config{DefaultReferralPercent: d("10")})
	ctx := context.Background()

	depositKey := models.FeeKey{CountryID: 1, Currency: models.CurrencyEUR, Operation: models.OperationDeposit, Method: string(models.CryptoBTC)}

	t.Run("Deposit", func(t *testing.T) {
		s := schedule("1", "2", "10", "1000")
		s.FeeKey = depositKey
		fees.EXPECT().FindSchedule(gomock.Any(), depositKey).Return(&s, nil)

		q, err := calc.Quote(ctx, depositKey, d("100"))
		require.NoError(t, err)
		assert.True(t, q.Total.Equal(d("103")))
		assert.Equal(t, depositKey, q.Schedule.FeeKey)
	})

	t.Run("DepositOutOfRange", func(t *testing.T) {
		s := schedule("1", "2", "10", "1000")
		fees.EXPECT().FindSchedule(gomock.Any(), depositKey).Return(&s, nil)

		q, err := calc.Quote(ctx, depositKey, d("5"))
		assert.Nil(t, q)
		assert.ErrorIs(t, err, pkgerrors.ErrAmountOutOfRange)
	})

	t.Run("TransferIgnoresRange", func(t *testing.T) {
		key := models.FeeKey{CountryID: 1, Currency: models.CurrencyEUR, Operation: models.OperationTransfer}
		s := schedule("0", "1", "10", "20")
		fees.EXPECT().FindSchedule(gomock.Any(), key).Return(&s, nil)

		q, err := calc.Quote(ctx, key, d("500"))
		require.NoError(t, err)
		assert.True(t, q.Total.Equal(d("495")))
	})

	t.Run("TransferBelowFee", func(t *testing.T) {
		key := models.FeeKey{CountryID: 1, Currency: models.CurrencyEUR, Operation: models.OperationTransfer}
		s := schedule("1", "0", "0", "0")
		fees.EXPECT().FindSchedule(gomock.Any(), key).Return(&s, nil)

		q, err := calc.Quote(ctx, key, d("0.50"))
		assert.Nil(t, q)
		assert.ErrorIs(t, err, pkgerrors.ErrAmountOutOfRange)
		assert.Contains(t, err.Error(), "does not cover the fee of 1 EUR")
	})

	t.Run("WithdrawalEqualToFee", func(t *testing.T) {
		key := models.FeeKey{CountryID: 1, Currency: models.CurrencyEUR, Operation: models.OperationWithdrawal, Method: string(models.CryptoBTC)}
		s := schedule("5", "0", "1", "1000")
		fees.EXPECT().FindSchedule(gomock.Any(), key).Return(&s, nil)

		q, err := calc.Quote(ctx, key, d("5"))
		assert.Nil(t, q)
		assert.ErrorIs(t, err, pkgerrors.ErrAmountOutOfRange)
	})

	t.Run("DepositBelowFeeIsCharged", func(t *testing.T) {
		s := schedule("5", "0", "1", "1000")
		fees.EXPECT().FindSchedule(gomock.Any(), depositKey).Return(&s, nil)

		q, err := calc.Quote(ctx, depositKey, d("2"))
		require.NoError(t, err)
		assert.True(t, q.Total.Equal(d("7")))
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		q, err := calc.Quote(ctx, depositKey, decimal.Zero)
		assert.Nil(t, q)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidAmount)
	})

	t.Run("UnknownCurrency", func(t *testing.T) {
		q, err := calc.Quote(ctx, models.FeeKey{Currency: "GBP", Operation: models.OperationDeposit}, d("10"))
		assert.Nil(t, q)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCurrency)
	})

	t.Run("MissingSchedule", func(t *testing.T) {
		fees.EXPECT().FindSchedule(gomock.Any(), depositKey).Return(nil, pkgerrors.ErrFeeScheduleNotFound)

		q, err := calc.Quote(ctx, depositKey, d("100"))
		assert.Nil(t, q)
		assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
	})
}

func TestCalculator_ReferralShare(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fees := mocks.NewMockFeeRepository(ctrl)
	calc := NewCalculator(fees, Config{DefaultReferralPercent: d("10")})
	ctx := context.Background()
	key := models.FeeKey{CountryID: 2, Currency: models.CurrencyUSD, Operation: models.OperationReferral}

	t.Run("CountrySchedule", func(t *testing.T) {
		s := schedule("0", "25", "0", "0")
		fees.EXPECT().FindSchedule(gomock.Any(), key).Return(&s, nil)

		share, err := calc.ReferralShare(ctx, 2, models.CurrencyUSD, d("3"))
		require.NoError(t, err)
		assert.True(t, share.Equal(d("0.75")), share.String())
	})

	t.Run("FallsBackToDefault", func(t *testing.T) {
		fees.EXPECT().FindSchedule(gomock.Any(), key).Return(nil, pkgerrors.ErrFeeScheduleNotFound)

		share, err := calc.ReferralShare(ctx, 2, models.CurrencyUSD, d("3"))
		require.NoError(t, err)
		assert.True(t, share.Equal(d("0.3")), share.String())
	})

	t.Run("RepositoryError", func(t *testing.T) {
		fees.EXPECT().FindSchedule(gomock.Any(), key).Return(nil, errors.New("db down"))

		_, err := calc.ReferralShare(ctx, 2, models.CurrencyUSD, d("3"))
		assert.EqualError(t, err, "db down")
	})
}
