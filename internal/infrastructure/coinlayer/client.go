package coinlayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/honeynil/KeecashLedger/internal/config"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/redis"
	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Symbols are the tickers wallet settings need a price for.
var Symbols = []string{"BTC", "ETH", "USDT"}

type API interface {
	// Rates returns how much one unit of each symbol is worth in fiat.
	Rates(ctx context.Context, fiat models.Currency) (map[string]decimal.Decimal, error)
}

type Client struct {
	cfg         config.CoinlayerConfig
	http        *http.Client
	redisClient redis.RedisClient
}

func NewClient(cfg config.CoinlayerConfig, redisClient redis.RedisClient) *Client {
	return &Client{
		cfg:         cfg,
		http:        &http.Client{Timeout: cfg.Timeout},
		redisClient: redisClient,
	}
}

type liveResponse struct {
	Success bool                       `json:"success"`
	Target  string                     `json:"target"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

func cacheKey(fiat models.Currency) string {
	return "coinlayer:rates:" + string(fiat)
}

func (c *Client) Rates(ctx context.Context, fiat models.Currency) (map[string]decimal.Decimal, error) {
	tracer := otel.Tracer("coinlayer-client")
	ctx, span := tracer.Start(ctx, "Rates")
	defer span.End()
	span.SetAttributes(attribute.String("currency", string(fiat)))

	if cached, err := c.redisClient.Get(ctx, cacheKey(fiat)); err == nil {
		var rates map[string]decimal.Decimal
		if err := json.Unmarshal([]byte(cached), &rates); err == nil {
			return rates, nil
		}
		slog.Warn("dropping unreadable cached rates", "currency", fiat)
	} else if !errors.Is(err, redis.ErrKeyNotFound) {
		slog.Warn("rate cache unavailable", "currency", fiat, "error", err)
	}

	q := url.Values{}
	q.Set("access_key", c.cfg.AccessKey)
	q.Set("target", string(fiat))
	q.Set("symbols", "BTC,ETH,USDT")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/live?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build coinlayer request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		slog.Error("coinlayer request failed", "currency", fiat, "error", err)
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrProvider, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrProvider, err)
	}
	if res.StatusCode >= 300 {
		span.SetStatus(codes.Error, "bad status")
		return nil, fmt.Errorf("%w: coinlayer status %d", pkgerrors.ErrProvider, res.StatusCode)
	}

	var out liveResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", pkgerrors.ErrProvider, err)
	}
	if !out.Success {
		info := "unknown error"
		if out.Error != nil {
			info = out.Error.Info
		}
		span.SetStatus(codes.Error, info)
		slog.Error("coinlayer returned an error", "currency", fiat, "info", info)
		return nil, fmt.Errorf("%w: coinlayer: %s", pkgerrors.ErrProvider, info)
	}

	if b, err := json.Marshal(out.Rates); err == nil {
		if err := c.redisClient.Set(ctx, cacheKey(fiat), string(b), c.cfg.CacheTTL); err != nil {
			slog.Warn("failed to cache rates", "currency", fiat, "error", err)
		}
	}
	return out.Rates, nil
}
