package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/kafka"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/triplea"
	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository"
	"github.com/honeynil/KeecashLedger/internal/webhook"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var depositMatch = repository.TransitionMatch{Reference: "PAY-1", Type: models.TypeDeposit, From: models.StatusInProgress}

func goodDeposit() webhook.DepositEvent {
	return webhook.DepositEvent{
		PaymentReference:    "PAY-1",
		PaymentTier:         webhook.TierGood,
		OrderCurrency:       models.CurrencyEUR,
		CryptoCurrency:      models.CryptoBTC,
		OrderAmount:         d("103"),
		PaymentAmount:       d("103"),
		PaymentCurrency:     models.CurrencyEUR,
		ExchangeRate:        d("0.00002"),
		CryptoAmount:        d("0.00206"),
		PaymentCryptoAmount: d("0.00206"),
		CryptoAddress:       testBTCAddress,
		WebhookData:         webhook.DepositData{PayerID: "keecash+SV08DV8", DesiredAmount: d("100")},
	}
}

func pendingDeposit() *models.Transaction {
	return &models.Transaction{
		ID: 10, UserID: 1, Currency: models.CurrencyEUR, AffectedAmount: d("100"), AppliedFee: d("3"),
		Type: models.TypeDeposit, Status: models.StatusInProgress, CryptoType: models.CryptoBTC, ExternalPaymentReference: "PAY-1",
	}
}

func referralKey() models.FeeKey {
	return models.FeeKey{CountryID: 33, Currency: models.CurrencyEUR, Operation: models.OperationReferral}
}

func TestReconciliationService_HandleDeposit_Good(t *testing.T) {
	ctx := context.Background()

	t.Run("WithReferrer", func(t *testing.T) {
		f := newFixture(t)
		referred := *jane
		referred.ReferrerID = 2

		f.transactions.EXPECT().FindPending(gomock.Any(), "PAY-1", models.TypeDeposit).Return(pendingDeposit(), nil)
		f.users.EXPECT().GetByReferralID(gomock.Any(), "SV08DV8").Return(&referred, nil)
		f.users.EXPECT().GetByID(gomock.Any(), int64(2)).Return(pierre, nil)
		f.fees.EXPECT().FindSchedule(gomock.Any(), referralKey()).Return(schedule(referralKey(), "0", "25", "0", "0"), nil)
		f.transactions.EXPECT().Transition(gomock.Any(), depositMatch, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ repository.TransitionMatch, update repository.TransitionUpdate, extra []*models.Transaction) (bool, error) {
				assert.Equal(t, models.StatusPerformed, update.To)
				assert.True(t, update.ExchangeRate.Decimal.Equal(d("0.00002")))
				assert.False(t, update.AffectedAmount.Valid)
				require.Len(t, extra, 1)
				assert.Equal(t, int64(2), extra[0].UserID)
				assert.Equal(t, int64(1), extra[0].SenderID)
				assert.Equal(t, models.TypeReferralFee, extra[0].Type)
				assert.True(t, extra[0].AffectedAmount.Equal(d("0.75")))
				assert.Equal(t, "PAY-1", extra[0].ExternalPaymentReference)
				return true, nil
			})
		f.producer.EXPECT().Send(gomock.Any(), kafka.TopicNotifications, int64(1), gomock.Any()).Return(nil)
		f.producer.EXPECT().Send(gomock.Any(), kafka.TopicNotifications, int64(2), gomock.Any()).Return(nil)

		assert.NoError(t, f.reconciliation().HandleDeposit(ctx, goodDeposit()))
	})

	t.Run("WithoutReferrer", func(t *testing.T) {
		f := newFixture(t)
		f.transactions.EXPECT().FindPending(gomock.Any(), "PAY-1", models.TypeDeposit).Return(pendingDeposit(), nil)
		f.users.EXPECT().GetByReferralID(gomock.Any(), "SV08DV8").Return(jane, nil)
		f.transactions.EXPECT().Transition(gomock.Any(), depositMatch, gomock.Any(), gomock.Len(0)).Return(true, nil)
		f.producer.EXPECT().Send(gomock.Any(), kafka.TopicNotifications, int64(1), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, _ int64, payload []byte) error {
				var n models.Notification
				require.NoError(t, json.Unmarshal(payload, &n))
				assert.Equal(t, models.NotificationDeposit, n.Type)
				assert.True(t, n.Amount.Equal(d("100")))
				return nil
			})

		assert.NoError(t, f.reconciliation().HandleDeposit(ctx, goodDeposit()))
	})

	t.Run("PayerMismatchCreditsRowOwner", func(t *testing.T) {
		f := newFixture(t)
		event := goodDeposit()
		event.WebhookData.PayerID = "keecash+PX11AB2"

		f.transactions.EXPECT().FindPending(gomock.Any(), "PAY-1", models.TypeDeposit).Return(pendingDeposit(), nil)
		f.users.EXPECT().GetByReferralID(gomock.Any(), "PX11AB2").Return(pierre, nil)
		f.users.EXPECT().GetByID(gomock.Any(), int64(1)).Return(jane, nil)
		f.transactions.EXPECT().Transition(gomock.Any(), depositMatch, gomock.Any(), gomock.Len(0)).Return(true, nil)
		f.producer.EXPECT().Send(gomock.Any(), kafka.TopicNotifications, int64(1), gomock.Any()).Return(nil)

		assert.NoError(t, f.reconciliation().HandleDeposit(ctx, event))
	})

	t.Run("RedeliveryChangesNothing", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.transactions.EXPECT().FindPending(gomock.Any(), "PAY-1", models.TypeDeposit).Return(pendingDeposit(), nil),
			f.transactions.EXPECT().FindPending(gomock.Any(), "PAY-1", models.TypeDeposit).Return(nil, pkgerrors.ErrTransactionNotFound),
		)
		f.users.EXPECT().GetByReferralID(gomock.Any(), "SV08DV8").Return(jane, nil)
		f.transactions.EXPECT().Transition(gomock.Any(), depositMatch, gomock.Any(), gomock.Any()).Return(true, nil).Times(1)
		f.producer.EXPECT().Send(gomock.Any(), kafka.TopicNotifications, int64(1), gomock.Any()).Return(nil).Times(1)

		svc := f.reconciliation()
		assert.NoError(t, svc.HandleDeposit(ctx, goodDeposit()))
		assert.NoError(t, svc.HandleDeposit(ctx, goodDeposit()))
	})

	t.Run("LostRaceSendsNothing", func(t *testing.T) {
		f := newFixture(t)
		f.transactions.EXPECT().FindPending(gomock.Any(), "PAY-1", models.TypeDeposit).Return(pendingDeposit(), nil)
		f.users.EXPECT().GetByReferralID(gomock.Any(), "SV08DV8").Return(jane, nil)
		f.transactions.EXPECT().Transition(gomock.Any(), depositMatch, gomock.Any(), gomock.Any()).Return(false, nil)

		assert.NoError(t, f.reconciliation().HandleDeposit(ctx, goodDeposit()))
	})

	t.Run("UnknownReceiver", func(t *testing.T) {
		f := newFixture(t)
		f.transactions.EXPECT().FindPending(gomock.Any(), "PAY-1", models.TypeDeposit).Return(pendingDeposit(), nil)
		f.users.EXPECT().GetByReferralID(gomock.Any(), "SV08DV8").Return(nil, pkgerrors.ErrUserNotFound)

		assert.ErrorIs(t, f.reconciliation().HandleDeposit(ctx, goodDeposit()), pkgerrors.ErrUserNotFound)
	})
}

func TestReconciliationService_HandleDeposit_Short(t *testing.T) {
	ctx := context.Background()
	shortDeposit := func(paid string) webhook.DepositEvent {
		e := goodDeposit()
		e.PaymentTier = webhook.TierShort
		e.PaymentAmount = d(paid)
		return e
	}

	t.Run("CreditsWhatWasPaid", func(t *testing.T) {
		f := newFixture(t)
		f.transactions.EXPECT().FindPending(gomock.Any(), "PAY-1", models.TypeDeposit).Return(pendingDeposit(), nil)
		f.users.EXPECT().GetByReferralID(gomock.Any(), "SV08DV8").Return(jane, nil)
		f.fees.EXPECT().FindSchedule(gomock.Any(), depositKey()).Return(schedule(depositKey(), "1", "2", "10", "1000"), nil)
		f.transactions.EXPECT().Transition(gomock.Any(), depositMatch, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ repository.TransitionMatch, update repository.TransitionUpdate, _ []*models.Transaction) (bool, error) {
				assert.True(t, update.AffectedAmount.Valid)
				assert.True(t, update.AffectedAmount.Decimal.Equal(d("50")))
				assert.True(t, update.AppliedFee.Decimal.Equal(d("2")))
				assert.Equal(t, "Deposit from BTC", update.Description)
				return true, nil
			})
		f.producer.EXPECT().Send(gomock.Any(), kafka.TopicNotifications, int64(1), gomock.Any()).Return(nil)

		assert.NoError(t, f.reconciliation().HandleDeposit(ctx, shortDeposit("50")))
	})

	t.Run("OutOfRangeIsRefusedByEmail", func(t *testing.T) {
		f := newFixture(t)
		f.transactions.EXPECT().FindPending(gomock.Any(), "PAY-1", models.TypeDeposit).Return(pendingDeposit(), nil)
		f.users.EXPECT().GetByReferralID(gomock.Any(), "SV08DV8").Return(jane, nil)
		f.fees.EXPECT().FindSchedule(gomock.Any(), depositKey()).Return(schedule(depositKey(), "1", "2", "10", "1000"), nil)
		f.producer.EXPECT().Send(gomock.Any(), kafka.TopicEmails, int64(1), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, _ int64, payload []byte) error {
				var email models.Email
				require.NoError(t, json.Unmarshal(payload, &email))
				assert.Equal(t, "jane@example.com", email.To)
				assert.Equal(t, "Your payment is rejected", email.Subject)
				assert.Contains(t, email.Body, testBTCAddress)
				return nil
			})

		assert.NoError(t, f.reconciliation().HandleDeposit(ctx, shortDeposit("5")))
	})
}

func TestReconciliationService_HandleDeposit_OtherTiers(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidRejects", func(t *testing.T) {
		f := newFixture(t)
		e := goodDeposit()
		e.PaymentTier = webhook.TierInvalid
		f.transactions.EXPECT().Transition(gomock.Any(), depositMatch, repository.TransitionUpdate{To: models.StatusRejected}, gomock.Nil()).Return(true, nil)

		assert.NoError(t, f.reconciliation().HandleDeposit(ctx, e))
	})

	for _, tier := range []webhook.PaymentTier{webhook.TierHold, webhook.TierNone} {
		t.Run(string(tier)+"LeavesRowInProgress", func(t *testing.T) {
			f := newFixture(t)
			e := goodDeposit()
			e.PaymentTier = tier

			assert.NoError(t, f.reconciliation().HandleDeposit(ctx, e))
		})
	}
}

func TestReconciliationService_HandleWithdrawal(t *testing.T) {
	ctx := context.Background()
	event := webhook.WithdrawalEvent{PayoutReference: "PO-1", OrderID: "SV08DV8-x", LocalCurrency: models.CurrencyEUR}
	withdrawalMatch := repository.TransitionMatch{Reference: "PO-1", Type: models.TypeWithdrawal, From: models.StatusInProgress}

	t.Run("Done", func(t *testing.T) {
		f := newFixture(t)
		f.tripleA.EXPECT().GetPayoutDetails(gomock.Any(), models.CurrencyEUR, "PO-1").Return(&triplea.PayoutDetails{
			Status: triplea.PayoutDone, ExchangeRate: d("0.000025"), CryptoAmount: d("0.0024"),
		}, nil)
		f.transactions.EXPECT().FindPending(gomock.Any(), "PO-1", models.TypeWithdrawal).Return(&models.Transaction{
			ID: 12, UserID: 1, Currency: models.CurrencyEUR, AffectedAmount: d("-100"),
		}, nil)
		f.transactions.EXPECT().Transition(gomock.Any(), withdrawalMatch, gomock.Any(), gomock.Nil()).DoAndReturn(
			func(_ context.Context, _ repository.TransitionMatch, update repository.TransitionUpdate, _ []*models.Transaction) (bool, error) {
				assert.Equal(t, models.StatusPerformed, update.To)
				assert.True(t, update.CryptoAmount.Decimal.Equal(d("0.0024")))
				return true, nil
			})
		f.producer.EXPECT().Send(gomock.Any(), kafka.TopicNotifications, int64(1), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, _ int64, payload []byte) error {
				var n models.Notification
				require.NoError(t, json.Unmarshal(payload, &n))
				assert.True(t, n.Amount.Equal(d("100")))
				return nil
			})

		assert.NoError(t, f.reconciliation().HandleWithdrawal(ctx, event))
	})

	t.Run("CancelChangesNothing", func(t *testing.T) {
		f := newFixture(t)
		f.tripleA.EXPECT().GetPayoutDetails(gomock.Any(), models.CurrencyEUR, "PO-1").Return(&triplea.PayoutDetails{Status: triplea.PayoutCancel}, nil)

		assert.NoError(t, f.reconciliation().HandleWithdrawal(ctx, event))
	})

	t.Run("AlreadySettled", func(t *testing.T) {
		f := newFixture(t)
		f.tripleA.EXPECT().GetPayoutDetails(gomock.Any(), models.CurrencyEUR, "PO-1").Return(&triplea.PayoutDetails{Status: triplea.PayoutDone}, nil)
		f.transactions.EXPECT().FindPending(gomock.Any(), "PO-1", models.TypeWithdrawal).Return(nil, pkgerrors.ErrTransactionNotFound)

		assert.NoError(t, f.reconciliation().HandleWithdrawal(ctx, event))
	})

	t.Run("ProviderDown", func(t *testing.T) {
		f := newFixture(t)
		f.tripleA.EXPECT().GetPayoutDetails(gomock.Any(), models.CurrencyEUR, "PO-1").Return(nil, pkgerrors.ErrProvider)

		assert.ErrorIs(t, f.reconciliation().HandleWithdrawal(ctx, event), pkgerrors.ErrProvider)
	})
}

func TestReconciliationService_HandleCardEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("CardholderVerified", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().SetCardholderVerified(gomock.Any(), "ch-1").Return(nil)

		err := f.reconciliation().HandleCardEvent(ctx, webhook.CardEvent{
			Event: webhook.EventCardholderVerified, Data: webhook.CardEventData{CardholderID: "ch-1"},
		})
		assert.NoError(t, err)
	})

	t.Run("CreationRecordsUnknownCard", func(t *testing.T) {
		f := newFixture(t)
		f.cards.EXPECT().GetByExternalID(gomock.Any(), "card-11").Return(nil, pkgerrors.ErrCardNotFound)
		f.users.EXPECT().GetByCardholderID(gomock.Any(), "ch-1").Return(jane, nil)
		f.cards.EXPECT().Create(gomock.Any(), &models.Card{
			UserID: 1, Name: "Keecash card", Currency: models.CurrencyUSD, Usage: models.CardUsageMultiple, ExternalCardID: "card-11",
		}).Return(int64(6), nil)

		err := f.reconciliation().HandleCardEvent(ctx, webhook.CardEvent{
			Event: webhook.EventCardCreationSuccessful, Data: webhook.CardEventData{CardholderID: "ch-1", CardID: "card-11"},
		})
		assert.NoError(t, err)
	})

	t.Run("CreationOfKnownCardIsNoop", func(t *testing.T) {
		f := newFixture(t)
		f.cards.EXPECT().GetByExternalID(gomock.Any(), "card-9").Return(janeCard(), nil)

		err := f.reconciliation().HandleCardEvent(ctx, webhook.CardEvent{
			Event: webhook.EventCardCreationSuccessful, Data: webhook.CardEventData{CardholderID: "ch-1", CardID: "card-9"},
		})
		assert.NoError(t, err)
	})

	t.Run("UnhandledEvent", func(t *testing.T) {
		f := newFixture(t)
		err := f.reconciliation().HandleCardEvent(ctx, webhook.CardEvent{Event: "card_debit_event.successful"})
		assert.NoError(t, err)
	})
}
