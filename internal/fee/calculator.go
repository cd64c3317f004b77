package fee

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Places is the fiat precision every fee and total is rounded to.
const Places int32 = 2

var hundred = decimal.NewFromInt(100)

type Direction int

const (
	// AddOnTop charges the fee on top of the amount: the user pays amount+fee.
	AddOnTop Direction = iota
	// DeductFrom takes the fee out of the amount: the payout is amount-fee.
	DeductFrom
)

// DirectionOf returns how the fee of an operation is applied.
func DirectionOf(op models.FeeOperation) Direction {
	switch op {
	case models.OperationWithdrawal, models.OperationTransfer:
		return DeductFrom
	case models.OperationDeposit, models.OperationCardTopup, models.OperationCardWithdrawal, models.OperationReferral:
		return AddOnTop
	}
	return AddOnTop
}

type Breakdown struct {
	FixedFee   decimal.Decimal `json:"fix_fees"`
	PercentFee decimal.Decimal `json:"percent_fees"`
	FeeApplied decimal.Decimal `json:"fees_applied"`
	Total      decimal.Decimal `json:"total"`
}

// Compute applies a schedule to an amount. It has no side effects.
func Compute(s models.FeeSchedule, amount decimal.Decimal, d Direction) Breakdown {
	applied := amount.Mul(s.PercentFee).Div(hundred).Add(s.FixedFee).Round(Places)

	var total decimal.Decimal
	switch d {
	case DeductFrom:
		total = amount.Sub(applied).Round(Places)
	default:
		total = amount.Add(applied).Round(Places)
	}

	return Breakdown{
		FixedFee:   s.FixedFee,
		PercentFee: s.PercentFee,
		FeeApplied: applied,
		Total:      total,
	}
}

// CheckRange fails with ErrAmountOutOfRange when amount is outside [min, max].
func CheckRange(s models.FeeSchedule, amount decimal.Decimal) error {
	if amount.LessThan(s.MinAmount) || amount.GreaterThan(s.MaxAmount) {
		return fmt.Errorf("%w: Min: %s %s - Max: %s %s", pkgerrors.ErrAmountOutOfRange,
			s.MinAmount.String(), s.Currency, s.MaxAmount.String(), s.Currency)
	}
	return nil
}

// ToCrypto converts a fiat amount into crypto units given how much fiat one
// crypto unit is worth.
func ToCrypto(fiat, rate decimal.Decimal, places int32) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return fiat.DivRound(rate, places+4).Round(places)
}

type Config struct {
	// DefaultReferralPercent is used when a country has no referral schedule.
	DefaultReferralPercent decimal.Decimal
}

type Quote struct {
	Schedule models.FeeSchedule
	Breakdown
}

type Calculator struct {
	fees repository.FeeRepository
	cfg  Config
}

func NewCalculator(fees repository.FeeRepository, cfg Config) *Calculator {
	return &Calculator{fees: fees, cfg: cfg}
}

// Quote looks up the schedule for key, enforces the min/max bounds for
// deposits and withdrawals and computes the fee for amount. A withdrawal or
// transfer whose fee eats the whole amount is out of range.
func (c *Calculator) Quote(ctx context.Context, key models.FeeKey, amount decimal.Decimal) (*Quote, error) {
	tracer := otel.Tracer("fee-calculator")
	ctx, span := tracer.Start(ctx, "Quote")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("country_id", key.CountryID),
		attribute.String("currency", string(key.Currency)),
		attribute.String("operation", string(key.Operation)),
		attribute.String("method", key.Method),
	)

	if !amount.IsPositive() {
		span.SetStatus(codes.Error, "invalid amount")
		return nil, pkgerrors.ErrInvalidAmount
	}
	if !key.Currency.Valid() {
		span.SetStatus(codes.Error, "invalid currency")
		return nil, pkgerrors.ErrInvalidCurrency
	}

	schedule, err := c.fees.FindSchedule(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "schedule lookup failed")
		slog.Error("failed to find fee schedule", "country_id", key.CountryID, "currency", key.Currency, "operation", key.Operation, "method", key.Method, "error", err)
		return nil, err
	}

	if key.Operation == models.OperationDeposit || key.Operation == models.OperationWithdrawal {
		if err := CheckRange(*schedule, amount); err != nil {
			span.SetStatus(codes.Error, "amount out of range")
			return nil, err
		}
	}

	breakdown := Compute(*schedule, amount, DirectionOf(key.Operation))
	if DirectionOf(key.Operation) == DeductFrom && !breakdown.Total.IsPositive() {
		span.SetStatus(codes.Error, "amount does not cover fee")
		return nil, fmt.Errorf("%w: %s %s does not cover the fee of %s %s", pkgerrors.ErrAmountOutOfRange,
			amount.String(), key.Currency, breakdown.FeeApplied.String(), key.Currency)
	}

	return &Quote{
		Schedule:  *schedule,
		Breakdown: breakdown,
	}, nil
}

// Schedule returns the raw schedule for key.
func (c *Calculator) Schedule(ctx context.Context, key models.FeeKey) (*models.FeeSchedule, error) {
	return c.fees.FindSchedule(ctx, key)
}

// ReferralShare is what a referrer earns from a fee charged in the given
// country and currency. It falls back to the configured default percent when
// the country has no referral schedule.
func (c *Calculator) ReferralShare(ctx context.Context, countryID int64, currency models.Currency, appliedFee decimal.Decimal) (decimal.Decimal, error) {
	schedule, err := c.fees.FindSchedule(ctx, models.FeeKey{
		CountryID: countryID,
		Currency:  currency,
		Operation: models.OperationReferral,
	})
	if err != nil {
		if !stderrors.Is(err, pkgerrors.ErrFeeScheduleNotFound) {
			return decimal.Zero, err
		}
		schedule = &models.FeeSchedule{PercentFee: c.cfg.DefaultReferralPercent}
	}

	// Only the fee part of Compute is the referrer's share.
	return Compute(*schedule, appliedFee, AddOnTop).FeeApplied, nil
}
