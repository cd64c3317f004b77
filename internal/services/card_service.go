package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/honeynil/KeecashLedger/internal/fee"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/bridgecard"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/kafka"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/redis"
	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type CreateCardRequest struct {
	Name        string           `json:"name"`
	Currency    models.Currency  `json:"keecash_wallet"`
	Usage       models.CardUsage `json:"card_usage"`
	TopupAmount decimal.Decimal  `json:"topup_amount"`
}

// CardQuote is the cost of issuing a card with an initial top-up.
type CardQuote struct {
	fee.Breakdown
	CardPrice decimal.Decimal `json:"card_price"`
}

type CardService interface {
	CreateCardQuote(ctx context.Context, p models.Principal, currency models.Currency, usage models.CardUsage, topup decimal.Decimal) (*CardQuote, error)
	CreateCard(ctx context.Context, p models.Principal, req CreateCardRequest) (*models.Card, error)
	TopupQuote(ctx context.Context, p models.Principal, cardID string, amount decimal.Decimal) (*fee.Quote, error)
	Topup(ctx context.Context, p models.Principal, cardID string, amount decimal.Decimal) error
	WithdrawalQuote(ctx context.Context, p models.Principal, cardID string, amount decimal.Decimal) (*fee.Quote, error)
	Withdraw(ctx context.Context, p models.Principal, cardID string, amount decimal.Decimal) error
	Freeze(ctx context.Context, p models.Principal, cardID string) error
	Unfreeze(ctx context.Context, p models.Principal, cardID string) error
	Delete(ctx context.Context, p models.Principal, cardID string) error
	List(ctx context.Context, p models.Principal) ([]models.CardDetails, error)
	Transactions(ctx context.Context, p models.Principal, cardID string) ([]models.CardActivity, error)
}

type cardService struct {
	userRepo        repository.UserRepository
	cardRepo        repository.CardRepository
	transactionRepo repository.TransactionRepository
	calc            *fee.Calculator
	issuer          bridgecard.API
	locker          *locker
	notifier        *notifier
}

func NewCardService(
	userRepo repository.UserRepository,
	cardRepo repository.CardRepository,
	transactionRepo repository.TransactionRepository,
	calc *fee.Calculator,
	issuer bridgecard.API,
	redisClient redis.RedisClient,
	producer kafka.KafkaProducer,
	lockTTL time.Duration,
) *cardService {
	return &cardService{
		userRepo:        userRepo,
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
		calc:            calc,
		issuer:          issuer,
		locker:          &locker{redisClient: redisClient, ttl: lockTTL},
		notifier:        newNotifier(producer),
	}
}

// ownedCard loads a live card and hides cards of other users behind ErrCardNotFound.
func (s *cardService) ownedCard(ctx context.Context, p models.Principal, cardID string) (*models.Card, error) {
	card, err := s.cardRepo.GetByExternalID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != p.UserID {
		slog.Warn("card accessed by another user", "user_id", p.UserID, "external_card_id", cardID)
		return nil, pkgerrors.ErrCardNotFound
	}
	return card, nil
}

func (s *cardService) CreateCardQuote(ctx context.Context, p models.Principal, currency models.Currency, usage models.CardUsage, topup decimal.Decimal) (*CardQuote, error) {
	if !usage.Valid() {
		return nil, fmt.Errorf("%w: unknown card usage %q", pkgerrors.ErrValidation, usage)
	}
	q, err := s.calc.Quote(ctx, models.FeeKey{CountryID: p.CountryID, Currency: currency, Operation: models.OperationCardTopup, Method: string(usage)}, topup)
	if err != nil {
		return nil, err
	}

	quote := &CardQuote{Breakdown: q.Breakdown, CardPrice: q.Schedule.CardPrice}
	quote.Total = q.Schedule.CardPrice.Add(topup).Add(q.FeeApplied).Round(fee.Places)
	return quote, nil
}

func (s *cardService) CreateCard(ctx context.Context, p models.Principal, req CreateCardRequest) (*models.Card, error) {
	tracer := otel.Tracer("card-service")
	ctx, span := tracer.Start(ctx, "CreateCard")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", p.UserID), attribute.String("currency", string(req.Currency)))

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fail(span, "card_creation", "invalid request", fmt.Errorf("%w: card name is required", pkgerrors.ErrValidation))
	}

	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, fail(span, "card_creation", "user lookup failed", err)
	}
	if user.CardholderID == "" || !user.CardholderVerified {
		return nil, fail(span, "card_creation", "cardholder not verified", pkgerrors.ErrCardholderNotVerified)
	}

	quote, err := s.CreateCardQuote(ctx, p, req.Currency, req.Usage, req.TopupAmount)
	if err != nil {
		return nil, fail(span, "card_creation", "quote failed", err)
	}

	release, err := s.locker.acquire(ctx, p.UserID, req.Currency)
	if err != nil {
		return nil, fail(span, "card_creation", "wallet locked", err)
	}
	defer release()

	if err := s.ensureBalance(ctx, p.UserID, req.Currency, quote.Total); err != nil {
		return nil, fail(span, "card_creation", "balance check failed", err)
	}

	externalID, err := s.issuer.CreateCard(ctx, bridgecard.CreateCardRequest{CardholderID: user.CardholderID, Currency: req.Currency, UserID: user.ID})
	if err != nil {
		return nil, fail(span, "card_creation", "issuer failed", err)
	}

	card := &models.Card{UserID: user.ID, Name: req.Name, Currency: req.Currency, Usage: req.Usage, ExternalCardID: externalID}
	if _, err := s.cardRepo.Create(ctx, card); err != nil {
		slog.Error("failed to persist issued card", "user_id", user.ID, "external_card_id", externalID, "error", err)
		return nil, fail(span, "card_creation", "persist card failed", err)
	}

	reference := uuid.NewString()
	if err := s.issuer.FundCard(ctx, externalID, bridgecard.ToMinor(req.TopupAmount), reference, req.Currency); err != nil {
		return nil, fail(span, "card_creation", "funding failed", err)
	}

	tx := &models.Transaction{
		UserID:         user.ID,
		CardID:         card.ID,
		Currency:       req.Currency,
		AffectedAmount: quote.Total.Neg(),
		AppliedFee:     quote.FeeApplied,
		FixedFee:       quote.FixedFee,
		PercentageFee:  quote.PercentFee,
		CardPrice:      quote.CardPrice,
		Type:           models.TypeCardCreation,
		Status:         models.StatusPerformed,
		Description:    cardCreationDescription(user, req.Name),
	}
	check := repository.BalanceCheck{UserID: user.ID, Currency: req.Currency, Required: quote.Total}
	if err := s.transactionRepo.CreateWithBalanceCheck(ctx, check, []*models.Transaction{tx}); err != nil {
		slog.Error("failed to persist card creation", "user_id", user.ID, "external_card_id", externalID, "reference", reference, "error", err)
		return nil, fail(span, "card_creation", "persist failed", err)
	}

	succeed("card_creation")
	slog.Info("card created", "user_id", user.ID, "card_id", card.ID, "external_card_id", externalID, "total", quote.Total.String())
	return card, nil
}

func (s *cardService) ensureBalance(ctx context.Context, userID int64, currency models.Currency, required decimal.Decimal) error {
	balance, err := s.transactionRepo.GetBalance(ctx, userID, currency)
	if err != nil {
		return err
	}
	if balance.LessThan(required) {
		slog.Warn("insufficient funds", "user_id", userID, "currency", currency, "balance", balance.String(), "required", required.String())
		return pkgerrors.ErrInsufficientFunds
	}
	return nil
}

func (s *cardService) TopupQuote(ctx context.Context, p models.Principal, cardID string, amount decimal.Decimal) (*fee.Quote, error) {
	card, err := s.ownedCard(ctx, p, cardID)
	if err != nil {
		return nil, err
	}
	return s.topupQuote(ctx, p, card, amount)
}

func (s *cardService) topupQuote(ctx context.Context, p models.Principal, card *models.Card, amount decimal.Decimal) (*fee.Quote, error) {
	return s.calc.Quote(ctx, models.FeeKey{CountryID: p.CountryID, Currency: card.Currency, Operation: models.OperationCardTopup, Method: string(card.Usage)}, amount)
}

func (s *cardService) Topup(ctx context.Context, p models.Principal, cardID string, amount decimal.Decimal) error {
	tracer := otel.Tracer("card-service")
	ctx, span := tracer.Start(ctx, "Topup")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", p.UserID), attribute.String("external_card_id", cardID))

	card, err := s.ownedCard(ctx, p, cardID)
	if err != nil {
		return fail(span, "card_topup", "card lookup failed", err)
	}
	if card.IsBlocked {
		return fail(span, "card_topup", "card frozen", fmt.Errorf("%w: card is frozen", pkgerrors.ErrValidation))
	}
	quote, err := s.topupQuote(ctx, p, card, amount)
	if err != nil {
		return fail(span, "card_topup", "quote failed", err)
	}
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return fail(span, "card_topup", "user lookup failed", err)
	}

	release, err := s.locker.acquire(ctx, p.UserID, card.Currency)
	if err != nil {
		return fail(span, "card_topup", "wallet locked", err)
	}
	defer release()

	if err := s.ensureBalance(ctx, p.UserID, card.Currency, quote.Total); err != nil {
		return fail(span, "card_topup", "balance check failed", err)
	}

	reference := uuid.NewString()
	if err := s.issuer.FundCard(ctx, card.ExternalCardID, bridgecard.ToMinor(amount), reference, card.Currency); err != nil {
		return fail(span, "card_topup", "issuer failed", err)
	}

	tx := &models.Transaction{
		UserID:         p.UserID,
		CardID:         card.ID,
		Currency:       card.Currency,
		AffectedAmount: quote.Total.Neg(),
		AppliedFee:     quote.FeeApplied,
		FixedFee:       quote.FixedFee,
		PercentageFee:  quote.PercentFee,
		Type:           models.TypeCardTopup,
		Status:         models.StatusPerformed,
		Description:    cardTopupDescription(user, card.Name),
	}
	check := repository.BalanceCheck{UserID: p.UserID, Currency: card.Currency, Required: quote.Total}
	if err := s.transactionRepo.CreateWithBalanceCheck(ctx, check, []*models.Transaction{tx}); err != nil {
		slog.Error("failed to persist card topup", "user_id", p.UserID, "external_card_id", cardID, "reference", reference, "error", err)
		return fail(span, "card_topup", "persist failed", err)
	}

	s.notifier.notify(ctx, p.UserID, models.NotificationCardTopup, quote.Total, card.Currency)
	succeed("card_topup")
	slog.Info("card topped up", "user_id", p.UserID, "card_id", card.ID, "amount", amount.String(), "reference", reference)
	return nil
}

func (s *cardService) WithdrawalQuote(ctx context.Context, p models.Principal, cardID string, amount decimal.Decimal) (*fee.Quote, error) {
	card, err := s.ownedCard(ctx, p, cardID)
	if err != nil {
		return nil, err
	}
	return s.withdrawalQuote(ctx, p, card, amount)
}

func (s *cardService) withdrawalQuote(ctx context.Context, p models.Principal, card *models.Card, amount decimal.Decimal) (*fee.Quote, error) {
	return s.calc.Quote(ctx, models.FeeKey{CountryID: p.CountryID, Currency: card.Currency, Operation: models.OperationCardWithdrawal}, amount)
}

// Withdraw unloads amount plus fee from the card and credits amount to the wallet.
func (s *cardService) Withdraw(ctx context.Context, p models.Principal, cardID string, amount decimal.Decimal) error {
	tracer := otel.Tracer("card-service")
	ctx, span := tracer.Start(ctx, "Withdraw")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", p.UserID), attribute.String("external_card_id", cardID))

	card, err := s.ownedCard(ctx, p, cardID)
	if err != nil {
		return fail(span, "card_withdrawal", "card lookup failed", err)
	}
	quote, err := s.withdrawalQuote(ctx, p, card, amount)
	if err != nil {
		return fail(span, "card_withdrawal", "quote failed", err)
	}
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return fail(span, "card_withdrawal", "user lookup failed", err)
	}

	// Money leaves the card, not the wallet, so the card's own balance at
	// Bridgecard is what must cover it. The wallet is only credited.
	cardBalance, err := s.issuer.GetCardBalance(ctx, card.ExternalCardID)
	if err != nil {
		return fail(span, "card_withdrawal", "card balance failed", err)
	}
	if cardBalance.LessThan(quote.Total) {
		slog.Warn("insufficient card funds", "user_id", p.UserID, "external_card_id", cardID, "card_balance", cardBalance.String(), "required", quote.Total.String())
		return fail(span, "card_withdrawal", "insufficient card funds", pkgerrors.ErrInsufficientFunds)
	}

	reference := uuid.NewString()
	if err := s.issuer.UnloadCard(ctx, card.ExternalCardID, bridgecard.ToMinor(quote.Total), reference, card.Currency); err != nil {
		return fail(span, "card_withdrawal", "issuer failed", err)
	}

	tx := &models.Transaction{
		UserID:         p.UserID,
		CardID:         card.ID,
		Currency:       card.Currency,
		AffectedAmount: amount,
		AppliedFee:     quote.FeeApplied,
		FixedFee:       quote.FixedFee,
		PercentageFee:  quote.PercentFee,
		Type:           models.TypeCardWithdrawal,
		Status:         models.StatusPerformed,
		Description:    cardWithdrawalDescription(user, card.Name),
	}
	if _, err := s.transactionRepo.Create(ctx, tx); err != nil {
		slog.Error("failed to persist card withdrawal", "user_id", p.UserID, "external_card_id", cardID, "reference", reference, "error", err)
		return fail(span, "card_withdrawal", "persist failed", err)
	}

	s.notifier.notify(ctx, p.UserID, models.NotificationCardWithdrawal, amount, card.Currency)
	succeed("card_withdrawal")
	slog.Info("card withdrawal performed", "user_id", p.UserID, "card_id", card.ID, "amount", amount.String(), "reference", reference)
	return nil
}

func (s *cardService) Freeze(ctx context.Context, p models.Principal, cardID string) error {
	return s.setFrozen(ctx, p, cardID, true)
}

func (s *cardService) Unfreeze(ctx context.Context, p models.Principal, cardID string) error {
	return s.setFrozen(ctx, p, cardID, false)
}

func (s *cardService) setFrozen(ctx context.Context, p models.Principal, cardID string, frozen bool) error {
	tracer := otel.Tracer("card-service")
	ctx, span := tracer.Start(ctx, "SetFrozen")
	defer span.End()
	span.SetAttributes(attribute.String("external_card_id", cardID), attribute.Bool("frozen", frozen))

	card, err := s.ownedCard(ctx, p, cardID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if frozen {
		err = s.issuer.FreezeCard(ctx, card.ExternalCardID)
	} else {
		err = s.issuer.UnfreezeCard(ctx, card.ExternalCardID)
	}
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.cardRepo.SetBlocked(ctx, card.ID, frozen); err != nil {
		slog.Error("card state diverged from issuer", "card_id", card.ID, "frozen", frozen, "error", err)
		return err
	}

	slog.Info("card state changed", "user_id", p.UserID, "card_id", card.ID, "frozen", frozen)
	return nil
}

// Delete hides the card; the issuer keeps it frozen.
func (s *cardService) Delete(ctx context.Context, p models.Principal, cardID string) error {
	tracer := otel.Tracer("card-service")
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()

	card, err := s.ownedCard(ctx, p, cardID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !card.IsBlocked {
		if err := s.issuer.FreezeCard(ctx, card.ExternalCardID); err != nil {
			span.RecordError(err)
			return err
		}
	}
	if err := s.cardRepo.SoftDelete(ctx, card.ID); err != nil {
		span.RecordError(err)
		return err
	}

	slog.Info("card deleted", "user_id", p.UserID, "card_id", card.ID)
	return nil
}

func (s *cardService) List(ctx context.Context, p models.Principal) ([]models.CardDetails, error) {
	tracer := otel.Tracer("card-service")
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	cards, err := s.cardRepo.ListByUser(ctx, p.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	details := make([]models.CardDetails, 0, len(cards))
	for _, card := range cards {
		balance, err := s.issuer.GetCardBalance(ctx, card.ExternalCardID)
		if err != nil {
			if !errors.Is(err, pkgerrors.ErrProvider) {
				return nil, err
			}
			// Show the card anyway; the balance is refreshed on the next call.
			slog.Warn("card balance unavailable", "card_id", card.ID, "error", err)
		}
		details = append(details, models.CardDetails{Card: card, Balance: balance})
	}
	return details, nil
}

func (s *cardService) Transactions(ctx context.Context, p models.Principal, cardID string) ([]models.CardActivity, error) {
	tracer := otel.Tracer("card-service")
	ctx, span := tracer.Start(ctx, "Transactions")
	defer span.End()

	card, err := s.ownedCard(ctx, p, cardID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.issuer.GetCardTransactions(ctx, card.ExternalCardID)
}
