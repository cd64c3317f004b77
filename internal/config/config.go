package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	PostgresDSN  string
	RedisAddr    string
	KafkaBrokers []string
	KafkaGroupID string
	JWTSecret    string
	HTTPAddr     string
	MetricsAddr  string
	OTLPEndpoint string
	ServiceName  string

	// DefaultReferralPercent applies when a country has no referral schedule.
	DefaultReferralPercent decimal.Decimal
	// LockTTL bounds how long a user/currency debit lock may be held.
	LockTTL time.Duration

	TripleA    TripleAConfig
	Bridgecard BridgecardConfig
	Coinlayer  CoinlayerConfig
}

// TripleACredentials is one merchant account; TripleA issues one per fiat currency.
type TripleACredentials struct {
	ClientID     string
	ClientSecret string
	MerchantKey  string
}

type TripleAConfig struct {
	BaseURL            string
	NotifyURL          string
	NotifySecret       string
	SignatureTolerance time.Duration
	Timeout            time.Duration
	Accounts           map[models.Currency]TripleACredentials
}

type BridgecardConfig struct {
	BaseURL       string
	AuthToken     string
	WebhookSecret string
	IssuingID     string
	Timeout       time.Duration
}

type CoinlayerConfig struct {
	BaseURL   string
	AccessKey string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file, using default values", "error", err)
	}

	cfg := &Config{
		PostgresDSN:  getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=keecash sslmode=disable"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "keecash-ledger"),
		JWTSecret:    getEnv("JWT_SECRET", "supersecret"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		MetricsAddr:  getEnv("METRICS_ADDR", ":9090"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		ServiceName:  getEnv("SERVICE_NAME", "keecash-ledger"),

		DefaultReferralPercent: getDecimal("DEFAULT_REFERRAL_PERCENT", decimal.NewFromInt(10)),
		LockTTL:                getDuration("LOCK_TTL", 30*time.Second),

		TripleA: TripleAConfig{
			BaseURL:            getEnv("TRIPLEA_BASE_URL", "https://api.triple-a.io/api/v2"),
			NotifyURL:          getEnv("TRIPLEA_NOTIFY_URL", "http://localhost:8080/api/v1/webhooks/triplea"),
			NotifySecret:       os.Getenv("TRIPLEA_NOTIFY_SECRET"),
			SignatureTolerance: getDuration("TRIPLEA_SIGNATURE_TOLERANCE", 300*time.Second),
			Timeout:            getDuration("TRIPLEA_TIMEOUT", 15*time.Second),
			Accounts:           make(map[models.Currency]TripleACredentials, len(models.Currencies)),
		},
		Bridgecard: BridgecardConfig{
			BaseURL:       getEnv("BRIDGECARD_BASE_URL", "https://issuecards.api.bridgecard.co/v1/issuing/sandbox"),
			AuthToken:     os.Getenv("BRIDGECARD_AUTH_TOKEN"),
			WebhookSecret: os.Getenv("BRIDGECARD_SECRET_KEY"),
			IssuingID:     os.Getenv("BRIDGECARD_ISSUING_ID"),
			Timeout:       getDuration("BRIDGECARD_TIMEOUT", 15*time.Second),
		},
		Coinlayer: CoinlayerConfig{
			BaseURL:   getEnv("COINLAYER_BASE_URL", "http://api.coinlayer.com"),
			AccessKey: os.Getenv("COINLAYER_ACCESS_KEY"),
			Timeout:   getDuration("COINLAYER_TIMEOUT", 10*time.Second),
			CacheTTL:  getDuration("COINLAYER_CACHE_TTL", time.Minute),
		},
	}

	for _, c := range models.Currencies {
		prefix := "TRIPLEA_" + string(c) + "_"
		cfg.TripleA.Accounts[c] = TripleACredentials{
			ClientID:     os.Getenv(prefix + "CLIENT_ID"),
			ClientSecret: os.Getenv(prefix + "CLIENT_SECRET"),
			MerchantKey:  os.Getenv(prefix + "MERCHANT_KEY"),
		}
	}

	slog.Info("config loaded", "redis_addr", cfg.RedisAddr, "kafka_brokers", cfg.KafkaBrokers, "http_addr", cfg.HTTPAddr)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
	return fallback
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		slog.Warn("invalid decimal, using default", "key", key, "value", v, "default", fallback.String())
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
