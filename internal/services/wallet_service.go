package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/KeecashLedger/internal/fee"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/coinlayer"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/kafka"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/redis"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/triplea"
	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type DepositRequest struct {
	Currency      models.Currency       `json:"keecash_wallet"`
	Method        models.CryptoCurrency `json:"deposit_method"`
	DesiredAmount decimal.Decimal       `json:"desired_amount"`
	Reason        string                `json:"reason"`
}

type DepositLink struct {
	Link             string `json:"link"`
	PaymentReference string `json:"payment_reference"`
	fee.Breakdown
}

type WithdrawalRequest struct {
	Currency        models.Currency       `json:"keecash_wallet"`
	Method          models.CryptoCurrency `json:"withdrawal_method"`
	TargetAmount    decimal.Decimal       `json:"target_amount"`
	Address         string                `json:"wallet_address"`
	SaveBeneficiary bool                  `json:"to_save_as_beneficiary"`
	WalletName      string                `json:"wallet_name"`
	Reason          string                `json:"reason"`
}

type TransferRequest struct {
	Currency          models.Currency `json:"keecash_wallet"`
	BeneficiaryUserID int64           `json:"beneficiary_user_id"`
	DesiredAmount     decimal.Decimal `json:"desired_amount"`
	SaveBeneficiary   bool            `json:"to_save_as_beneficiary"`
	Reason            string          `json:"reason"`
}

// MethodLimits are the bounds of one crypto method for one fiat wallet, in
// fiat and in crypto units at the current rate.
type MethodLimits struct {
	Active       bool            `json:"is_active"`
	Min          decimal.Decimal `json:"min"`
	Max          decimal.Decimal `json:"max"`
	MinCrypto    decimal.Decimal `json:"min_crypto"`
	MaxCrypto    decimal.Decimal `json:"max_crypto"`
	AfterDecimal int32           `json:"after_decimal"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

type MethodSettings struct {
	Name string                           `json:"name"`
	Code models.CryptoCurrency            `json:"code"`
	Data map[models.Currency]MethodLimits `json:"data"`
}

type WalletSettings struct {
	Balances map[models.Currency]decimal.Decimal `json:"balances"`
	Methods  []MethodSettings                    `json:"methods"`
}

type WalletService interface {
	DepositQuote(ctx context.Context, p models.Principal, currency models.Currency, method models.CryptoCurrency, amount decimal.Decimal) (*fee.Quote, error)
	CreateDepositLink(ctx context.Context, p models.Principal, req DepositRequest) (*DepositLink, error)
	WithdrawalQuote(ctx context.Context, p models.Principal, currency models.Currency, method models.CryptoCurrency, amount decimal.Decimal) (*fee.Quote, error)
	ApplyWithdrawal(ctx context.Context, p models.Principal, req WithdrawalRequest) (*models.Transaction, error)
	TransferQuote(ctx context.Context, p models.Principal, currency models.Currency, amount decimal.Decimal) (*fee.Quote, error)
	ApplyTransfer(ctx context.Context, p models.Principal, req TransferRequest) error
	Settings(ctx context.Context, p models.Principal, op models.FeeOperation) (*WalletSettings, error)
}

type walletService struct {
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	beneficiaryRepo repository.BeneficiaryRepository
	calc            *fee.Calculator
	tripleA         triplea.API
	rates           coinlayer.API
	locker          *locker
	notifier        *notifier
}

func NewWalletService(
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	beneficiaryRepo repository.BeneficiaryRepository,
	calc *fee.Calculator,
	tripleA triplea.API,
	rates coinlayer.API,
	redisClient redis.RedisClient,
	producer kafka.KafkaProducer,
	lockTTL time.Duration,
) *walletService {
	return &walletService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		beneficiaryRepo: beneficiaryRepo,
		calc:            calc,
		tripleA:         tripleA,
		rates:           rates,
		locker:          &locker{redisClient: redisClient, ttl: lockTTL},
		notifier:        newNotifier(producer),
	}
}

func checkMethod(currency models.Currency, method models.CryptoCurrency) error {
	if !currency.Valid() {
		return pkgerrors.ErrInvalidCurrency
	}
	if !method.Valid() {
		return fmt.Errorf("%w: unknown crypto method %q", pkgerrors.ErrValidation, method)
	}
	return nil
}

func (s *walletService) DepositQuote(ctx context.Context, p models.Principal, currency models.Currency, method models.CryptoCurrency, amount decimal.Decimal) (*fee.Quote, error) {
	if err := checkMethod(currency, method); err != nil {
		return nil, err
	}
	return s.calc.Quote(ctx, models.FeeKey{CountryID: p.CountryID, Currency: currency, Operation: models.OperationDeposit, Method: string(method)}, amount)
}

func (s *walletService) CreateDepositLink(ctx context.Context, p models.Principal, req DepositRequest) (*DepositLink, error) {
	tracer := otel.Tracer("wallet-service")
	ctx, span := tracer.Start(ctx, "CreateDepositLink")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", p.UserID), attribute.String("currency", string(req.Currency)))

	quote, err := s.DepositQuote(ctx, p, req.Currency, req.Method, req.DesiredAmount)
	if err != nil {
		return nil, fail(span, "deposit", "quote failed", err)
	}

	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		slog.Error("failed to load depositing user", "user_id", p.UserID, "error", err)
		return nil, fail(span, "deposit", "user lookup failed", err)
	}

	res, err := s.tripleA.CreateDeposit(ctx, triplea.DepositRequest{
		Currency:      req.Currency,
		Crypto:        req.Method,
		Amount:        quote.Total,
		DesiredAmount: req.DesiredAmount,
		Email:         user.Email,
		ReferralID:    user.ReferralID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
	})
	if err != nil {
		return nil, fail(span, "deposit", "provider failed", err)
	}

	tx := &models.Transaction{
		UserID:                   p.UserID,
		Currency:                 req.Currency,
		AffectedAmount:           req.DesiredAmount,
		AppliedFee:               quote.FeeApplied,
		FixedFee:                 quote.FixedFee,
		PercentageFee:            quote.PercentFee,
		Type:                     models.TypeDeposit,
		Status:                   models.StatusInProgress,
		CryptoType:               req.Method,
		ExternalPaymentReference: res.PaymentReference,
		Description:              depositDescription(user, req.Method),
		Reason:                   req.Reason,
	}
	if _, err := s.transactionRepo.Create(ctx, tx); err != nil {
		// The payment exists at TripleA without a row to reconcile against.
		slog.Error("failed to persist deposit", "user_id", p.UserID, "payment_reference", res.PaymentReference, "error", err)
		return nil, fail(span, "deposit", "persist failed", err)
	}

	succeed("deposit")
	slog.Info("deposit link created", "user_id", p.UserID, "payment_reference", res.PaymentReference, "transaction_id", tx.ID)
	return &DepositLink{Link: res.HostedURL, PaymentReference: res.PaymentReference, Breakdown: quote.Breakdown}, nil
}

func (s *walletService) WithdrawalQuote(ctx context.Context, p models.Principal, currency models.Currency, method models.CryptoCurrency, amount decimal.Decimal) (*fee.Quote, error) {
	if err := checkMethod(currency, method); err != nil {
		return nil, err
	}
	return s.calc.Quote(ctx, models.FeeKey{CountryID: p.CountryID, Currency: currency, Operation: models.OperationWithdrawal, Method: string(method)}, amount)
}

func (s *walletService) ApplyWithdrawal(ctx context.Context, p models.Principal, req WithdrawalRequest) (*models.Transaction, error) {
	tracer := otel.Tracer("wallet-service")
	ctx, span := tracer.Start(ctx, "ApplyWithdrawal")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", p.UserID), attribute.String("currency", string(req.Currency)))

	if err := checkMethod(req.Currency, req.Method); err != nil {
		return nil, fail(span, "withdrawal", "invalid request", err)
	}
	if err := ValidateAddress(req.Method, req.Address); err != nil {
		return nil, fail(span, "withdrawal", "invalid address", err)
	}

	quote, err := s.WithdrawalQuote(ctx, p, req.Currency, req.Method, req.TargetAmount)
	if err != nil {
		return nil, fail(span, "withdrawal", "quote failed", err)
	}

	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, fail(span, "withdrawal", "user lookup failed", err)
	}

	saveWallet := false
	if req.SaveBeneficiary {
		exists, err := s.beneficiaryRepo.WalletExists(ctx, p.UserID, req.Address)
		if err != nil {
			return nil, fail(span, "withdrawal", "beneficiary lookup failed", err)
		}
		saveWallet = !exists
	}

	release, err := s.locker.acquire(ctx, p.UserID, req.Currency)
	if err != nil {
		return nil, fail(span, "withdrawal", "wallet locked", err)
	}
	defer release()

	balance, err := s.transactionRepo.GetBalance(ctx, p.UserID, req.Currency)
	if err != nil {
		return nil, fail(span, "withdrawal", "balance failed", err)
	}
	if balance.LessThan(req.TargetAmount) {
		slog.Warn("insufficient funds", "user_id", p.UserID, "currency", req.Currency, "balance", balance.String(), "required", req.TargetAmount.String())
		return nil, fail(span, "withdrawal", "insufficient funds", pkgerrors.ErrInsufficientFunds)
	}

	payout, err := s.tripleA.CreatePayout(ctx, triplea.PayoutRequest{
		Currency:   req.Currency,
		Crypto:     req.Method,
		Amount:     quote.Total,
		Address:    req.Address,
		Email:      user.Email,
		ReferralID: user.ReferralID,
	})
	if err != nil {
		return nil, fail(span, "withdrawal", "provider failed", err)
	}

	tx := &models.Transaction{
		UserID:                   p.UserID,
		Currency:                 req.Currency,
		AffectedAmount:           req.TargetAmount.Neg(),
		AppliedFee:               quote.FeeApplied,
		FixedFee:                 quote.FixedFee,
		PercentageFee:            quote.PercentFee,
		Type:                     models.TypeWithdrawal,
		Status:                   models.StatusInProgress,
		CryptoType:               req.Method,
		ExternalPaymentReference: payout.PayoutReference,
		Description:              withdrawalDescription(user, req.Method),
		Reason:                   req.Reason,
	}
	check := repository.BalanceCheck{UserID: p.UserID, Currency: req.Currency, Required: req.TargetAmount}
	if err := s.transactionRepo.CreateWithBalanceCheck(ctx, check, []*models.Transaction{tx}); err != nil {
		slog.Error("failed to persist withdrawal", "user_id", p.UserID, "payout_reference", payout.PayoutReference, "error", err)
		return nil, fail(span, "withdrawal", "persist failed", err)
	}

	if saveWallet {
		wallet := &models.BeneficiaryWallet{UserID: p.UserID, Address: req.Address, Name: req.WalletName, Type: req.Method}
		if err := s.beneficiaryRepo.CreateWallet(ctx, wallet); err != nil {
			slog.Error("failed to save beneficiary wallet", "user_id", p.UserID, "error", err)
		}
	}

	succeed("withdrawal")
	slog.Info("withdrawal requested", "user_id", p.UserID, "payout_reference", payout.PayoutReference, "amount", req.TargetAmount.String())
	return tx, nil
}

func (s *walletService) TransferQuote(ctx context.Context, p models.Principal, currency models.Currency, amount decimal.Decimal) (*fee.Quote, error) {
	return s.calc.Quote(ctx, models.FeeKey{CountryID: p.CountryID, Currency: currency, Operation: models.OperationTransfer}, amount)
}

func (s *walletService) ApplyTransfer(ctx context.Context, p models.Principal, req TransferRequest) error {
	tracer := otel.Tracer("wallet-service")
	ctx, span := tracer.Start(ctx, "ApplyTransfer")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user_id", p.UserID),
		attribute.Int64("receiver_id", req.BeneficiaryUserID),
		attribute.String("currency", string(req.Currency)),
	)

	if req.BeneficiaryUserID == p.UserID {
		return fail(span, "transfer", "self transfer", pkgerrors.ErrSelfTransfer)
	}

	quote, err := s.TransferQuote(ctx, p, req.Currency, req.DesiredAmount)
	if err != nil {
		return fail(span, "transfer", "quote failed", err)
	}

	sender, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return fail(span, "transfer", "sender lookup failed", err)
	}
	receiver, err := s.userRepo.GetByID(ctx, req.BeneficiaryUserID)
	if err != nil {
		slog.Warn("transfer receiver not found", "user_id", p.UserID, "receiver_id", req.BeneficiaryUserID, "error", err)
		return fail(span, "transfer", "receiver lookup failed", err)
	}

	release, err := s.locker.acquire(ctx, p.UserID, req.Currency)
	if err != nil {
		return fail(span, "transfer", "wallet locked", err)
	}
	defer release()

	rows := []*models.Transaction{
		{
			UserID:         sender.ID,
			ReceiverID:     receiver.ID,
			Currency:       req.Currency,
			AffectedAmount: req.DesiredAmount.Neg(),
			AppliedFee:     quote.FeeApplied,
			FixedFee:       quote.FixedFee,
			PercentageFee:  quote.PercentFee,
			Type:           models.TypeTransferSent,
			Status:         models.StatusPerformed,
			Description:    transferSentDescription(sender, receiver),
			Reason:         req.Reason,
		},
		{
			UserID:         receiver.ID,
			SenderID:       sender.ID,
			Currency:       req.Currency,
			AffectedAmount: quote.Total,
			AppliedFee:     quote.FeeApplied,
			FixedFee:       quote.FixedFee,
			PercentageFee:  quote.PercentFee,
			Type:           models.TypeTransferReceived,
			Status:         models.StatusPerformed,
			Description:    transferReceivedDescription(receiver, sender),
			Reason:         req.Reason,
		},
	}
	check := repository.BalanceCheck{UserID: sender.ID, Currency: req.Currency, Required: req.DesiredAmount}
	if err := s.transactionRepo.CreateWithBalanceCheck(ctx, check, rows); err != nil {
		if !errors.Is(err, pkgerrors.ErrInsufficientFunds) {
			slog.Error("failed to persist transfer", "user_id", sender.ID, "receiver_id", receiver.ID, "error", err)
		}
		return fail(span, "transfer", "persist failed", err)
	}

	if req.SaveBeneficiary {
		if err := s.beneficiaryRepo.CreateUser(ctx, &models.BeneficiaryUser{PayerID: sender.ID, PayeeID: receiver.ID}); err != nil {
			slog.Error("failed to save beneficiary user", "user_id", sender.ID, "receiver_id", receiver.ID, "error", err)
		}
	}

	s.notifier.notify(ctx, sender.ID, models.NotificationTransferSent, req.DesiredAmount, req.Currency)
	s.notifier.notify(ctx, receiver.ID, models.NotificationTransferReceived, quote.Total, req.Currency)

	succeed("transfer")
	slog.Info("transfer performed", "user_id", sender.ID, "receiver_id", receiver.ID, "amount", req.DesiredAmount.String(), "received", quote.Total.String())
	return nil
}

// Settings lists, for every crypto method and fiat wallet, the deposit or
// withdrawal bounds of the caller's country with their crypto equivalent.
func (s *walletService) Settings(ctx context.Context, p models.Principal, op models.FeeOperation) (*WalletSettings, error) {
	tracer := otel.Tracer("wallet-service")
	ctx, span := tracer.Start(ctx, "Settings")
	defer span.End()

	if op != models.OperationDeposit && op != models.OperationWithdrawal {
		return nil, fmt.Errorf("%w: settings exist for deposit and withdrawal only", pkgerrors.ErrValidation)
	}

	balances, err := s.transactionRepo.GetBalances(ctx, p.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	rates := make(map[models.Currency]map[string]decimal.Decimal, len(models.Currencies))
	for _, currency := range models.Currencies {
		r, err := s.rates.Rates(ctx, currency)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "rates failed")
			return nil, err
		}
		rates[currency] = r
	}

	methods := make([]MethodSettings, 0, len(models.CryptoCurrencies))
	for _, method := range models.CryptoCurrencies {
		ms := MethodSettings{Name: method.DisplayName(), Code: method, Data: make(map[models.Currency]MethodLimits)}
		for _, currency := range models.Currencies {
			limits := MethodLimits{AfterDecimal: method.Decimals(), ExchangeRate: rates[currency][method.RateSymbol()]}

			schedule, err := s.calc.Schedule(ctx, models.FeeKey{CountryID: p.CountryID, Currency: currency, Operation: op, Method: string(method)})
			switch {
			case err == nil:
				limits.Active = true
				limits.Min = schedule.MinAmount
				limits.Max = schedule.MaxAmount
				limits.MinCrypto = fee.ToCrypto(schedule.MinAmount, limits.ExchangeRate, method.Decimals())
				limits.MaxCrypto = fee.ToCrypto(schedule.MaxAmount, limits.ExchangeRate, method.Decimals())
			case errors.Is(err, pkgerrors.ErrFeeScheduleNotFound):
				// not offered in this country
			default:
				span.RecordError(err)
				return nil, err
			}
			ms.Data[currency] = limits
		}
		methods = append(methods, ms)
	}

	return &WalletSettings{Balances: balances, Methods: methods}, nil
}
