package triplea

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/honeynil/KeecashLedger/internal/config"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/redis"
	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PayerPrefix is prepended to the referral id in payer_id; deposit webhooks
// carry it back as "keecash+{referralId}".
const PayerPrefix = "keecash+"

// tokenLeeway is subtracted from expires_in so a cached token is never used
// right at its expiry.
const tokenLeeway = 60 * time.Second

type PayoutStatus string

const (
	PayoutNew     PayoutStatus = "new"
	PayoutConfirm PayoutStatus = "confirm"
	PayoutDone    PayoutStatus = "done"
	PayoutCancel  PayoutStatus = "cancel"
)

type API interface {
	CreateDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error)
	CreatePayout(ctx context.Context, req PayoutRequest) (*PayoutResponse, error)
	GetPayoutDetails(ctx context.Context, currency models.Currency, payoutReference string) (*PayoutDetails, error)
}

type DepositRequest struct {
	Currency      models.Currency
	Crypto        models.CryptoCurrency
	Amount        decimal.Decimal // what the payer is charged, fee included
	DesiredAmount decimal.Decimal // what lands in the wallet
	Email         string
	ReferralID    string
	FirstName     string
	LastName      string
}

type DepositResponse struct {
	PaymentReference string `json:"payment_reference"`
	HostedURL        string `json:"hosted_url"`
}

type PayoutRequest struct {
	Currency   models.Currency
	Crypto     models.CryptoCurrency
	Amount     decimal.Decimal
	Address    string
	Email      string
	ReferralID string
}

type PayoutResponse struct {
	PayoutReference string `json:"payout_reference"`
	OrderID         string `json:"order_id"`
}

type PayoutDetails struct {
	PayoutReference string          `json:"payout_reference"`
	OrderID         string          `json:"order_id"`
	Status          PayoutStatus    `json:"status"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	CryptoAmount    decimal.Decimal `json:"crypto_amount"`
	LocalAmount     decimal.Decimal `json:"local_amount"`
	LocalCurrency   models.Currency `json:"local_currency"`
}

// cryptoCodes maps wallet methods to TripleA currency codes.
var cryptoCodes = map[models.CryptoCurrency]string{
	models.CryptoBTC:          "BTC",
	models.CryptoBTCLightning: "LNBC",
	models.CryptoETH:          "ETH",
	models.CryptoUSDTTRC20:    "USDT_TRC20",
	models.CryptoUSDTERC20:    "USDT",
	models.CryptoUSDC:         "USDC",
	models.CryptoBinance:      "BNB",
}

type Client struct {
	cfg         config.TripleAConfig
	http        *http.Client
	redisClient redis.RedisClient
}

func NewClient(cfg config.TripleAConfig, redisClient redis.RedisClient) *Client {
	return &Client{
		cfg:         cfg,
		http:        &http.Client{Timeout: cfg.Timeout},
		redisClient: redisClient,
	}
}

type httpError struct {
	Status int
	Body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("triplea http error: status %d: %s", e.Status, e.Body)
}

func (c *Client) CreateDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error) {
	tracer := otel.Tracer("triplea-client")
	ctx, span := tracer.Start(ctx, "CreateDeposit")
	defer span.End()
	span.SetAttributes(
		attribute.String("currency", string(req.Currency)),
		attribute.String("crypto", string(req.Crypto)),
	)

	account, ok := c.cfg.Accounts[req.Currency]
	if !ok {
		return nil, pkgerrors.ErrInvalidCurrency
	}

	payerID := PayerPrefix + req.ReferralID
	webhookData := map[string]any{
		"payer_id":       payerID,
		"desired_amount": json.Number(req.DesiredAmount.StringFixed(2)),
	}
	payload := map[string]any{
		"type":            "widget",
		"merchant_key":    account.MerchantKey,
		"order_currency":  req.Currency,
		"order_amount":    json.Number(req.Amount.StringFixed(2)),
		"crypto_currency": cryptoCodes[req.Crypto],
		"payer_id":        payerID,
		"payer_name":      strings.TrimSpace(req.FirstName + " " + req.LastName),
		"payer_email":     req.Email,
		"notify_url":      strings.TrimSuffix(c.cfg.NotifyURL, "/") + "/deposit",
		"notify_secret":   c.cfg.NotifySecret,
		"webhook_data":    webhookData,
	}

	var out DepositResponse
	if err := c.do(ctx, req.Currency, http.MethodPost, "/payment", payload, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "deposit failed")
		slog.Error("triplea deposit failed", "currency", req.Currency, "referral_id", req.ReferralID, "error", err)
		return nil, err
	}
	if out.PaymentReference == "" {
		return nil, fmt.Errorf("%w: triplea returned no payment reference", pkgerrors.ErrProvider)
	}

	slog.Info("triplea deposit created", "payment_reference", out.PaymentReference, "currency", req.Currency)
	return &out, nil
}

func (c *Client) CreatePayout(ctx context.Context, req PayoutRequest) (*PayoutResponse, error) {
	tracer := otel.Tracer("triplea-client")
	ctx, span := tracer.Start(ctx, "CreatePayout")
	defer span.End()
	span.SetAttributes(
		attribute.String("currency", string(req.Currency)),
		attribute.String("crypto", string(req.Crypto)),
	)

	account, ok := c.cfg.Accounts[req.Currency]
	if !ok {
		return nil, pkgerrors.ErrInvalidCurrency
	}

	// The order id starts with the referral id so the payout can be traced
	// back to its user.
	orderID := req.ReferralID + "-" + uuid.NewString()
	payload := map[string]any{
		"merchant_key":      account.MerchantKey,
		"order_id":          orderID,
		"email":             req.Email,
		"withdraw_currency": req.Currency,
		"withdraw_amount":   json.Number(req.Amount.StringFixed(2)),
		"crypto_currency":   cryptoCodes[req.Crypto],
		"address":           req.Address,
		"name":              "Keecash",
		"country":           "FR",
		"notify_url":        strings.TrimSuffix(c.cfg.NotifyURL, "/") + "/withdrawal",
		"notify_secret":     c.cfg.NotifySecret,
	}

	var out PayoutResponse
	if err := c.do(ctx, req.Currency, http.MethodPost, "/payout/withdraw/local/crypto/direct", payload, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payout failed")
		slog.Error("triplea payout failed", "currency", req.Currency, "referral_id", req.ReferralID, "error", err)
		return nil, err
	}
	if out.PayoutReference == "" {
		return nil, fmt.Errorf("%w: triplea returned no payout reference", pkgerrors.ErrProvider)
	}
	if out.OrderID == "" {
		out.OrderID = orderID
	}

	slog.Info("triplea payout created", "payout_reference", out.PayoutReference, "order_id", out.OrderID)
	return &out, nil
}

func (c *Client) GetPayoutDetails(ctx context.Context, currency models.Currency, payoutReference string) (*PayoutDetails, error) {
	tracer := otel.Tracer("triplea-client")
	ctx, span := tracer.Start(ctx, "GetPayoutDetails")
	defer span.End()
	span.SetAttributes(attribute.String("payout_reference", payoutReference))

	var out PayoutDetails
	path := "/payout/withdraw/" + url.PathEscape(payoutReference) + "/local/crypto"
	if err := c.do(ctx, currency, http.MethodGet, path, nil, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payout details failed")
		slog.Error("triplea payout details failed", "payout_reference", payoutReference, "error", err)
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, currency models.Currency, method, path string, payload any, out any) error {
	token, err := c.accessToken(ctx, currency)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode triplea request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build triplea request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrProvider, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrProvider, err)
	}
	if res.StatusCode >= 300 {
		return fmt.Errorf("%w: %v", pkgerrors.ErrProvider, &httpError{Status: res.StatusCode, Body: string(raw)})
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", pkgerrors.ErrProvider, err)
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func tokenKey(currency models.Currency) string {
	return "triplea:token:" + string(currency)
}

// accessToken returns the client-credentials token of the currency's merchant
// account, from Redis when still valid.
func (c *Client) accessToken(ctx context.Context, currency models.Currency) (string, error) {
	token, err := c.redisClient.Get(ctx, tokenKey(currency))
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, redis.ErrKeyNotFound) {
		slog.Warn("triplea token cache unavailable", "currency", currency, "error", err)
	}

	account, ok := c.cfg.Accounts[currency]
	if !ok {
		return "", pkgerrors.ErrInvalidCurrency
	}

	form := url.Values{}
	form.Set("client_id", account.ClientID)
	form.Set("client_secret", account.ClientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out tokenResponse
	if err := c.send(req, &out); err != nil {
		slog.Error("triplea token request failed", "currency", currency, "error", err)
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", pkgerrors.ErrProvider)
	}

	ttl := time.Duration(out.ExpiresIn)*time.Second - tokenLeeway
	if ttl > 0 {
		if err := c.redisClient.Set(ctx, tokenKey(currency), out.AccessToken, ttl); err != nil {
			slog.Warn("failed to cache triplea token", "currency", currency, "error", err)
		}
	}
	return out.AccessToken, nil
}
