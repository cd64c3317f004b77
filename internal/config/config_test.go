package config

import (
	"testing"
	"time"

	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := Load()
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, 300*time.Second, cfg.TripleA.SignatureTolerance)
		assert.True(t, cfg.DefaultReferralPercent.Equal(decimal.NewFromInt(10)))
		assert.Len(t, cfg.TripleA.Accounts, len(models.Currencies))
	})

	t.Run("FromEnvironment", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
		t.Setenv("TRIPLEA_SIGNATURE_TOLERANCE", "120")
		t.Setenv("BRIDGECARD_TIMEOUT", "3s")
		t.Setenv("DEFAULT_REFERRAL_PERCENT", "12.5")
		t.Setenv("TRIPLEA_EUR_CLIENT_ID", "eur-client")

		cfg := Load()
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, 120*time.Second, cfg.TripleA.SignatureTolerance)
		assert.Equal(t, 3*time.Second, cfg.Bridgecard.Timeout)
		assert.Equal(t, "12.5", cfg.DefaultReferralPercent.String())
		assert.Equal(t, "eur-client", cfg.TripleA.Accounts[models.CurrencyEUR].ClientID)
	})

	t.Run("InvalidValuesFallBack", func(t *testing.T) {
		t.Setenv("LOCK_TTL", "soon")
		t.Setenv("DEFAULT_REFERRAL_PERCENT", "ten")

		cfg := Load()
		assert.Equal(t, 30*time.Second, cfg.LockTTL)
		assert.True(t, cfg.DefaultReferralPercent.Equal(decimal.NewFromInt(10)))
	})
}
