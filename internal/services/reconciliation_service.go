package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/honeynil/KeecashLedger/internal/fee"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/kafka"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/observability"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/triplea"
	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository"
	"github.com/honeynil/KeecashLedger/internal/webhook"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	providerTripleA    = "triplea"
	providerBridgecard = "bridgecard"
)

// ReconciliationService applies provider notifications to the ledger. Handlers
// are idempotent: a redelivered notification finds no IN_PROGRESS row and
// changes nothing.
type ReconciliationService interface {
	HandleDeposit(ctx context.Context, event webhook.DepositEvent) error
	HandleWithdrawal(ctx context.Context, event webhook.WithdrawalEvent) error
	HandleCardEvent(ctx context.Context, event webhook.CardEvent) error
}

type reconciliationService struct {
	userRepo        repository.UserRepository
	cardRepo        repository.CardRepository
	transactionRepo repository.TransactionRepository
	calc            *fee.Calculator
	tripleA         triplea.API
	notifier        *notifier
}

func NewReconciliationService(
	userRepo repository.UserRepository,
	cardRepo repository.CardRepository,
	transactionRepo repository.TransactionRepository,
	calc *fee.Calculator,
	tripleA triplea.API,
	producer kafka.KafkaProducer,
) *reconciliationService {
	return &reconciliationService{
		userRepo:        userRepo,
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
		calc:            calc,
		tripleA:         tripleA,
		notifier:        newNotifier(producer),
	}
}

func countWebhook(provider, event, outcome string) {
	observability.WebhookEvents.WithLabelValues(provider, event, outcome).Inc()
}

func (s *reconciliationService) HandleDeposit(ctx context.Context, event webhook.DepositEvent) error {
	tracer := otel.Tracer("reconciliation-service")
	ctx, span := tracer.Start(ctx, "HandleDeposit")
	defer span.End()
	span.SetAttributes(
		attribute.String("payment_reference", event.PaymentReference),
		attribute.String("payment_tier", string(event.PaymentTier)),
	)

	switch event.PaymentTier {
	case webhook.TierHold, webhook.TierNone:
		slog.Info("deposit left in progress", "payment_reference", event.PaymentReference, "payment_tier", event.PaymentTier)
		countWebhook(providerTripleA, "deposit", string(event.PaymentTier))
		return nil

	case webhook.TierInvalid:
		ok, err := s.transactionRepo.Transition(ctx,
			repository.TransitionMatch{Reference: event.PaymentReference, Type: models.TypeDeposit, From: models.StatusInProgress},
			repository.TransitionUpdate{To: models.StatusRejected},
			nil,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "reject failed")
			slog.Error("failed to reject deposit", "payment_reference", event.PaymentReference, "error", err)
			return err
		}
		outcome := "rejected"
		if !ok {
			outcome = "duplicate"
		}
		slog.Info("deposit rejected by network", "payment_reference", event.PaymentReference, "transitioned", ok)
		countWebhook(providerTripleA, "deposit", outcome)
		return nil

	case webhook.TierGood, webhook.TierShort:
		return s.settleDeposit(ctx, event)
	}

	return pkgerrors.ErrInvalidPayload
}

// settleDeposit moves a good or short deposit to PERFORMED together with the
// referrer's earnings row.
func (s *reconciliationService) settleDeposit(ctx context.Context, event webhook.DepositEvent) error {
	span := trace.SpanFromContext(ctx)

	pending, err := s.transactionRepo.FindPending(ctx, event.PaymentReference, models.TypeDeposit)
	if errors.Is(err, pkgerrors.ErrTransactionNotFound) {
		slog.Info("deposit already settled or unknown", "payment_reference", event.PaymentReference)
		countWebhook(providerTripleA, "deposit", "duplicate")
		return nil
	}
	if err != nil {
		span.RecordError(err)
		return err
	}

	receiver, err := s.userRepo.GetByReferralID(ctx, event.ReferralID())
	if err != nil {
		span.RecordError(err)
		slog.Error("deposit receiver not found", "payment_reference", event.PaymentReference, "referral_id", event.ReferralID(), "error", err)
		return err
	}
	// The row owner is credited whatever payer_id says.
	if receiver.ID != pending.UserID {
		slog.Warn("deposit payer does not own the pending row", "payment_reference", event.PaymentReference,
			"referral_id", event.ReferralID(), "payer_user_id", receiver.ID, "user_id", pending.UserID)
		countWebhook(providerTripleA, "deposit", "payer_mismatch")
		if receiver, err = s.userRepo.GetByID(ctx, pending.UserID); err != nil {
			span.RecordError(err)
			slog.Error("deposit owner not found", "payment_reference", event.PaymentReference, "user_id", pending.UserID, "error", err)
			return err
		}
	}

	update := repository.TransitionUpdate{
		To:           models.StatusPerformed,
		ExchangeRate: decimal.NewNullDecimal(event.ExchangeRate),
		CryptoAmount: decimal.NewNullDecimal(event.PaymentCryptoAmount),
	}
	credited := pending.AffectedAmount
	appliedFee := pending.AppliedFee

	if event.PaymentTier == webhook.TierShort {
		quote, err := s.calc.Quote(ctx, models.FeeKey{
			CountryID: receiver.CountryID,
			Currency:  pending.Currency,
			Operation: models.OperationDeposit,
			Method:    string(pending.CryptoType),
		}, event.PaymentAmount)
		if err != nil {
			if !errors.Is(err, pkgerrors.ErrValidation) && !errors.Is(err, pkgerrors.ErrNotFound) {
				span.RecordError(err)
				return err
			}
			slog.Warn("short deposit refused", "payment_reference", event.PaymentReference, "user_id", receiver.ID,
				"payment_amount", event.PaymentAmount.String(), "error", errors.Join(pkgerrors.ErrAmountMismatch, err))
			s.notifier.email(ctx, receiver.ID, rejectedPaymentEmail(receiver,
				event.CryptoAmount.String(), string(event.CryptoCurrency),
				event.PaymentAmount.String(), string(event.PaymentCurrency), event.CryptoAddress))
			countWebhook(providerTripleA, "deposit", "short_refused")
			return nil
		}

		credited = event.PaymentAmount
		appliedFee = quote.FeeApplied
		update.AffectedAmount = decimal.NewNullDecimal(credited)
		update.AppliedFee = decimal.NewNullDecimal(quote.FeeApplied)
		update.FixedFee = decimal.NewNullDecimal(quote.FixedFee)
		update.PercentageFee = decimal.NewNullDecimal(quote.PercentFee)
		update.Description = depositDescription(receiver, pending.CryptoType)
	}

	referral, referrer, err := s.referralRow(ctx, receiver, pending, appliedFee, event.PaymentReference)
	if err != nil {
		span.RecordError(err)
		return err
	}
	var extra []*models.Transaction
	if referral != nil {
		extra = append(extra, referral)
	}

	ok, err := s.transactionRepo.Transition(ctx,
		repository.TransitionMatch{Reference: event.PaymentReference, Type: models.TypeDeposit, From: models.StatusInProgress},
		update, extra)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition failed")
		slog.Error("failed to settle deposit", "payment_reference", event.PaymentReference, "error", err)
		return err
	}
	if !ok {
		slog.Info("deposit settled concurrently", "payment_reference", event.PaymentReference)
		countWebhook(providerTripleA, "deposit", "duplicate")
		return nil
	}

	s.notifier.notify(ctx, receiver.ID, models.NotificationDeposit, credited, pending.Currency)
	if referral != nil {
		s.notifier.notify(ctx, referrer.ID, models.NotificationReferralFee, referral.AffectedAmount, pending.Currency)
	}

	countWebhook(providerTripleA, "deposit", "performed")
	slog.Info("deposit performed", "payment_reference", event.PaymentReference, "user_id", receiver.ID,
		"transaction_id", pending.ID, "amount", credited.String(), "payment_tier", event.PaymentTier)
	return nil
}

// referralRow builds the referrer's earnings for a settled deposit, or nil
// when the receiver was not referred.
func (s *reconciliationService) referralRow(ctx context.Context, receiver *models.User, deposit *models.Transaction, appliedFee decimal.Decimal, reference string) (*models.Transaction, *models.User, error) {
	if receiver.ReferrerID == 0 {
		return nil, nil, nil
	}

	referrer, err := s.userRepo.GetByID(ctx, receiver.ReferrerID)
	if err != nil {
		return nil, nil, err
	}
	share, err := s.calc.ReferralShare(ctx, receiver.CountryID, deposit.Currency, appliedFee)
	if err != nil {
		return nil, nil, err
	}
	if !share.IsPositive() {
		slog.Info("no referral earnings on zero fee", "payment_reference", reference, "referrer_id", referrer.ID)
		return nil, nil, nil
	}

	return &models.Transaction{
		UserID:                   referrer.ID,
		SenderID:                 receiver.ID,
		Currency:                 deposit.Currency,
		AffectedAmount:           share,
		Type:                     models.TypeReferralFee,
		Status:                   models.StatusPerformed,
		ExternalPaymentReference: reference,
		Description:              referralDescription(referrer, receiver),
		Reason:                   referralReason(referrer, receiver),
	}, referrer, nil
}

func (s *reconciliationService) HandleWithdrawal(ctx context.Context, event webhook.WithdrawalEvent) error {
	tracer := otel.Tracer("reconciliation-service")
	ctx, span := tracer.Start(ctx, "HandleWithdrawal")
	defer span.End()
	span.SetAttributes(attribute.String("payout_reference", event.PayoutReference))

	details, err := s.tripleA.GetPayoutDetails(ctx, event.LocalCurrency, event.PayoutReference)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payout details failed")
		return err
	}

	switch details.Status {
	case triplea.PayoutDone:
		// settled below
	case triplea.PayoutCancel:
		slog.Warn("payout cancelled by provider, needs manual follow-up", "payout_reference", event.PayoutReference, "order_id", event.OrderID)
		countWebhook(providerTripleA, "withdrawal", "cancelled")
		return nil
	case triplea.PayoutNew, triplea.PayoutConfirm:
		slog.Info("payout still processing", "payout_reference", event.PayoutReference, "status", details.Status)
		countWebhook(providerTripleA, "withdrawal", string(details.Status))
		return nil
	default:
		slog.Warn("unknown payout status", "payout_reference", event.PayoutReference, "status", details.Status)
		countWebhook(providerTripleA, "withdrawal", "unknown")
		return nil
	}

	pending, err := s.transactionRepo.FindPending(ctx, event.PayoutReference, models.TypeWithdrawal)
	if errors.Is(err, pkgerrors.ErrTransactionNotFound) {
		slog.Info("withdrawal already settled or unknown", "payout_reference", event.PayoutReference)
		countWebhook(providerTripleA, "withdrawal", "duplicate")
		return nil
	}
	if err != nil {
		span.RecordError(err)
		return err
	}

	update := repository.TransitionUpdate{To: models.StatusPerformed}
	if !details.ExchangeRate.IsZero() {
		update.ExchangeRate = decimal.NewNullDecimal(details.ExchangeRate)
	}
	if !details.CryptoAmount.IsZero() {
		update.CryptoAmount = decimal.NewNullDecimal(details.CryptoAmount)
	}

	ok, err := s.transactionRepo.Transition(ctx,
		repository.TransitionMatch{Reference: event.PayoutReference, Type: models.TypeWithdrawal, From: models.StatusInProgress},
		update, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition failed")
		slog.Error("failed to settle withdrawal", "payout_reference", event.PayoutReference, "error", err)
		return err
	}
	if !ok {
		countWebhook(providerTripleA, "withdrawal", "duplicate")
		return nil
	}

	s.notifier.notify(ctx, pending.UserID, models.NotificationWithdrawal, pending.AffectedAmount.Abs(), pending.Currency)
	countWebhook(providerTripleA, "withdrawal", "performed")
	slog.Info("withdrawal performed", "payout_reference", event.PayoutReference, "user_id", pending.UserID, "transaction_id", pending.ID)
	return nil
}

func (s *reconciliationService) HandleCardEvent(ctx context.Context, event webhook.CardEvent) error {
	tracer := otel.Tracer("reconciliation-service")
	ctx, span := tracer.Start(ctx, "HandleCardEvent")
	defer span.End()
	span.SetAttributes(attribute.String("event", event.Event))

	switch event.Event {
	case webhook.EventCardholderVerified:
		if err := s.userRepo.SetCardholderVerified(ctx, event.Data.CardholderID); err != nil {
			span.RecordError(err)
			return err
		}
		slog.Info("cardholder verified", "cardholder_id", event.Data.CardholderID)

	case webhook.EventCardholderFailed:
		slog.Warn("cardholder verification failed", "cardholder_id", event.Data.CardholderID)

	case webhook.EventCardCreationSuccessful:
		if err := s.recordIssuedCard(ctx, event.Data); err != nil {
			span.RecordError(err)
			return err
		}

	default:
		slog.Info("card event ignored", "event", event.Event, "external_card_id", event.Data.CardID)
		countWebhook(providerBridgecard, event.Event, "ignored")
		return nil
	}

	countWebhook(providerBridgecard, event.Event, "handled")
	return nil
}

// recordIssuedCard stores a card the issuer created outside CreateCard.
func (s *reconciliationService) recordIssuedCard(ctx context.Context, data webhook.CardEventData) error {
	_, err := s.cardRepo.GetByExternalID(ctx, data.CardID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pkgerrors.ErrCardNotFound) {
		return err
	}

	user, err := s.userRepo.GetByCardholderID(ctx, data.CardholderID)
	if err != nil {
		return err
	}

	currency := models.Currency(data.Currency)
	if !currency.Valid() {
		currency = models.CurrencyUSD
	}
	card := &models.Card{
		UserID:         user.ID,
		Name:           "Keecash card",
		Currency:       currency,
		Usage:          models.CardUsageMultiple,
		ExternalCardID: data.CardID,
	}
	if _, err := s.cardRepo.Create(ctx, card); err != nil {
		return err
	}
	slog.Info("issued card recorded from webhook", "user_id", user.ID, "external_card_id", data.CardID)
	return nil
}
