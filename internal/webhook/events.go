package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/honeynil/KeecashLedger/internal/infrastructure/triplea"
	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
)

type PaymentTier string

const (
	TierGood    PaymentTier = "good"
	TierShort   PaymentTier = "short"
	TierHold    PaymentTier = "hold"
	TierNone    PaymentTier = "none"
	TierInvalid PaymentTier = "invalid"
)

func (t PaymentTier) Valid() bool {
	switch t {
	case TierGood, TierShort, TierHold, TierNone, TierInvalid:
		return true
	}
	return false
}

type DepositData struct {
	PayerID       string          `json:"payer_id"`
	DesiredAmount decimal.Decimal `json:"desired_amount"`
}

// DepositEvent is the TripleA payment notification.
type DepositEvent struct {
	PaymentReference    string                `json:"payment_reference"`
	PaymentTier         PaymentTier           `json:"payment_tier"`
	OrderCurrency       models.Currency       `json:"order_currency"`
	CryptoCurrency      models.CryptoCurrency `json:"crypto_currency"`
	OrderAmount         decimal.Decimal       `json:"order_amount"`
	PaymentAmount       decimal.Decimal       `json:"payment_amount"`
	PaymentCurrency     models.Currency       `json:"payment_currency"`
	ExchangeRate        decimal.Decimal       `json:"exchange_rate"`
	CryptoAmount        decimal.Decimal       `json:"crypto_amount"`
	PaymentCryptoAmount decimal.Decimal       `json:"payment_crypto_amount"`
	CryptoAddress       string                `json:"crypto_address"`
	WebhookData         DepositData           `json:"webhook_data"`
}

// ReferralID extracts the receiver's referral id from "keecash+{referralId}".
func (e *DepositEvent) ReferralID() string {
	return strings.TrimPrefix(e.WebhookData.PayerID, triplea.PayerPrefix)
}

func (e *DepositEvent) Validate() error {
	if e.PaymentReference == "" {
		return fmt.Errorf("%w: missing payment_reference", pkgerrors.ErrInvalidPayload)
	}
	if !e.PaymentTier.Valid() {
		return fmt.Errorf("%w: unknown payment_tier %q", pkgerrors.ErrInvalidPayload, e.PaymentTier)
	}
	if e.PaymentTier == TierGood || e.PaymentTier == TierShort {
		if !strings.HasPrefix(e.WebhookData.PayerID, triplea.PayerPrefix) || e.ReferralID() == "" {
			return fmt.Errorf("%w: payer_id %q", pkgerrors.ErrInvalidPayload, e.WebhookData.PayerID)
		}
		if !e.OrderCurrency.Valid() {
			return fmt.Errorf("%w: order_currency %q", pkgerrors.ErrInvalidPayload, e.OrderCurrency)
		}
	}
	if e.PaymentTier == TierShort && !e.PaymentAmount.IsPositive() {
		return fmt.Errorf("%w: short payment without payment_amount", pkgerrors.ErrInvalidPayload)
	}
	return nil
}

// WithdrawalEvent is the TripleA payout notification. It only points at the
// payout; its state is fetched from the provider.
type WithdrawalEvent struct {
	PayoutReference string          `json:"payout_reference"`
	OrderID         string          `json:"order_id"`
	LocalCurrency   models.Currency `json:"local_currency"`
}

func (e *WithdrawalEvent) Validate() error {
	if e.PayoutReference == "" {
		return fmt.Errorf("%w: missing payout_reference", pkgerrors.ErrInvalidPayload)
	}
	if !e.LocalCurrency.Valid() {
		return fmt.Errorf("%w: local_currency %q", pkgerrors.ErrInvalidPayload, e.LocalCurrency)
	}
	return nil
}

const (
	EventCardholderVerified     = "cardholder_verification.successful"
	EventCardholderFailed       = "cardholder_verification.failed"
	EventCardCreationSuccessful = "card_creation_event.successful"
	EventCardCreationFailed     = "card_creation_event.failed"
)

type CardEventData struct {
	CardholderID string `json:"cardholder_id"`
	CardID       string `json:"card_id"`
	Currency     string `json:"currency,omitempty"`
}

// CardEvent is a Bridgecard notification.
type CardEvent struct {
	Event string        `json:"event"`
	Data  CardEventData `json:"data"`
}

func (e *CardEvent) Validate() error {
	if e.Event == "" {
		return fmt.Errorf("%w: missing event", pkgerrors.ErrInvalidPayload)
	}
	switch e.Event {
	case EventCardholderVerified:
		if e.Data.CardholderID == "" {
			return fmt.Errorf("%w: missing cardholder_id", pkgerrors.ErrInvalidPayload)
		}
	case EventCardCreationSuccessful:
		if e.Data.CardholderID == "" || e.Data.CardID == "" {
			return fmt.Errorf("%w: missing cardholder_id or card_id", pkgerrors.ErrInvalidPayload)
		}
	}
	return nil
}

// Decode unmarshals body into a typed event and validates it.
func Decode[T interface{ Validate() error }](body []byte, event T) error {
	if err := json.Unmarshal(body, event); err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrInvalidPayload, err)
	}
	return event.Validate()
}
