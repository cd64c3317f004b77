package bridgecard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/honeynil/KeecashLedger/internal/config"
	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Bridgecard exchanges amounts in cents.
var minorUnits = decimal.NewFromInt(100)

type API interface {
	CreateCard(ctx context.Context, req CreateCardRequest) (string, error)
	FundCard(ctx context.Context, cardID string, amountMinor int64, reference string, currency models.Currency) error
	UnloadCard(ctx context.Context, cardID string, amountMinor int64, reference string, currency models.Currency) error
	FreezeCard(ctx context.Context, cardID string) error
	UnfreezeCard(ctx context.Context, cardID string) error
	GetCardBalance(ctx context.Context, cardID string) (decimal.Decimal, error)
	GetCardTransactions(ctx context.Context, cardID string) ([]models.CardActivity, error)
}

type CreateCardRequest struct {
	CardholderID string
	Currency     models.Currency
	UserID       int64
}

// ToMinor converts a fiat amount to whole cents.
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnits).Round(0).IntPart()
}

// FromMinor converts cents back to a fiat amount.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(minorUnits)
}

type Client struct {
	cfg  config.BridgecardConfig
	http *http.Client
}

func NewClient(cfg config.BridgecardConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fundRequest struct {
	CardID               string `json:"card_id"`
	Amount               string `json:"amount"`
	TransactionReference string `json:"transaction_reference"`
	Currency             string `json:"currency"`
}

func (c *Client) CreateCard(ctx context.Context, req CreateCardRequest) (string, error) {
	tracer := otel.Tracer("bridgecard-client")
	ctx, span := tracer.Start(ctx, "CreateCard")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", req.UserID))

	payload := map[string]any{
		"cardholder_id": req.CardholderID,
		"card_type":     "virtual",
		"card_brand":    "Mastercard",
		"card_currency": req.Currency,
		"meta_data":     map[string]any{"keecash_user_id": req.UserID},
	}

	var data struct {
		CardID string `json:"card_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/cards/create_card", payload, &data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create card failed")
		slog.Error("bridgecard create card failed", "user_id", req.UserID, "cardholder_id", req.CardholderID, "error", err)
		return "", err
	}
	if data.CardID == "" {
		return "", fmt.Errorf("%w: bridgecard returned no card id", pkgerrors.ErrProvider)
	}

	slog.Info("bridgecard card created", "user_id", req.UserID, "external_card_id", data.CardID)
	return data.CardID, nil
}

func (c *Client) FundCard(ctx context.Context, cardID string, amountMinor int64, reference string, currency models.Currency) error {
	return c.move(ctx, "FundCard", "/cards/fund_card_asynchronously", cardID, amountMinor, reference, currency)
}

func (c *Client) UnloadCard(ctx context.Context, cardID string, amountMinor int64, reference string, currency models.Currency) error {
	return c.move(ctx, "UnloadCard", "/cards/unload_card_asynchronously", cardID, amountMinor, reference, currency)
}

func (c *Client) move(ctx context.Context, op, path, cardID string, amountMinor int64, reference string, currency models.Currency) error {
	tracer := otel.Tracer("bridgecard-client")
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(
		attribute.String("external_card_id", cardID),
		attribute.Int64("amount_minor", amountMinor),
		attribute.String("reference", reference),
	)

	if amountMinor <= 0 {
		return pkgerrors.ErrInvalidAmount
	}

	payload := fundRequest{
		CardID:               cardID,
		Amount:               fmt.Sprintf("%d", amountMinor),
		TransactionReference: reference,
		Currency:             string(currency),
	}
	if err := c.do(ctx, http.MethodPatch, path, payload, nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, op+" failed")
		slog.Error("bridgecard card operation failed", "operation", op, "external_card_id", cardID, "reference", reference, "error", err)
		return err
	}

	slog.Info("bridgecard card operation accepted", "operation", op, "external_card_id", cardID, "reference", reference, "amount_minor", amountMinor)
	return nil
}

func (c *Client) FreezeCard(ctx context.Context, cardID string) error {
	return c.toggle(ctx, "FreezeCard", "/cards/freeze_card", cardID)
}

func (c *Client) UnfreezeCard(ctx context.Context, cardID string) error {
	return c.toggle(ctx, "UnfreezeCard", "/cards/unfreeze_card", cardID)
}

func (c *Client) toggle(ctx context.Context, op, path, cardID string) error {
	tracer := otel.Tracer("bridgecard-client")
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String("external_card_id", cardID))

	if err := c.do(ctx, http.MethodPatch, path+"?card_id="+url.QueryEscape(cardID), nil, nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, op+" failed")
		slog.Error("bridgecard card operation failed", "operation", op, "external_card_id", cardID, "error", err)
		return err
	}
	return nil
}

func (c *Client) GetCardBalance(ctx context.Context, cardID string) (decimal.Decimal, error) {
	tracer := otel.Tracer("bridgecard-client")
	ctx, span := tracer.Start(ctx, "GetCardBalance")
	defer span.End()
	span.SetAttributes(attribute.String("external_card_id", cardID))

	var data struct {
		Balance json.Number `json:"balance"`
	}
	if err := c.do(ctx, http.MethodGet, "/cards/get_card_balance?card_id="+url.QueryEscape(cardID), nil, &data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get balance failed")
		slog.Error("bridgecard balance failed", "external_card_id", cardID, "error", err)
		return decimal.Zero, err
	}

	minor, err := data.Balance.Int64()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad balance %q", pkgerrors.ErrProvider, data.Balance)
	}
	return FromMinor(minor), nil
}

func (c *Client) GetCardTransactions(ctx context.Context, cardID string) ([]models.CardActivity, error) {
	tracer := otel.Tracer("bridgecard-client")
	ctx, span := tracer.Start(ctx, "GetCardTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("external_card_id", cardID))

	var data struct {
		Transactions []struct {
			Amount          json.Number `json:"amount"`
			Currency        string      `json:"currency"`
			Description     string      `json:"description"`
			TransactionDate string      `json:"transaction_date"`
		} `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, "/cards/get_card_transactions?card_id="+url.QueryEscape(cardID), nil, &data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get transactions failed")
		slog.Error("bridgecard transactions failed", "external_card_id", cardID, "error", err)
		return nil, err
	}

	activity := make([]models.CardActivity, 0, len(data.Transactions))
	for _, tx := range data.Transactions {
		minor, err := tx.Amount.Int64()
		if err != nil {
			slog.Warn("skipping card transaction with bad amount", "external_card_id", cardID, "amount", tx.Amount.String())
			continue
		}
		activity = append(activity, models.CardActivity{
			Amount:      FromMinor(minor),
			Currency:    models.Currency(tx.Currency),
			Description: tx.Description,
			Date:        tx.TransactionDate,
		})
	}
	return activity, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode bridgecard request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build bridgecard request: %w", err)
	}
	req.Header.Set("token", "Bearer "+c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/json")

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
		return fmt.Errorf("%w: bridgecard status %d: %s", pkgerrors.ErrProvider, res.StatusCode, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: decode response: %v", pkgerrors.ErrProvider, err)
	}
	if env.Status != "" && env.Status != "success" {
		return fmt.Errorf("%w: bridgecard: %s", pkgerrors.ErrProvider, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: decode data: %v", pkgerrors.ErrProvider, err)
		}
	}
	return nil
}
