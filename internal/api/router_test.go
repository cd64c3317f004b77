package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/KeecashLedger/internal/handler"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/auth"
	redismocks "github.com/honeynil/KeecashLedger/internal/infrastructure/redis/mocks"
	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/services/mocks"
	"github.com/honeynil/KeecashLedger/internal/webhook"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestSetupRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedgerService(ctrl)
	redisClient := redismocks.NewMockRedisClient(ctrl)
	h := handler.NewHandler(ledger, mocks.NewMockWalletService(ctrl), mocks.NewMockCardService(ctrl),
		mocks.NewMockReconciliationService(ctrl), webhook.NewVerifier("notify-secret", 0), "bridgecard-secret")
	router := SetupRouter(h, redisClient, testSecret)

	t.Run("ProtectedRouteNeedsToken", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wallets/balance", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ProtectedRouteWithToken", func(t *testing.T) {
		p := models.Principal{UserID: 7, CountryID: 33}
		token, err := auth.IssueToken([]byte(testSecret), p, time.Hour)
		require.NoError(t, err)
		redisClient.EXPECT().Get(gomock.Any(), "user:7:token").Return(token, nil)
		ledger.EXPECT().GetBalances(gomock.Any(), int64(7)).Return(map[models.Currency]decimal.Decimal{}, nil)

		before := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/api/v1/wallets/balance", "200"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/balance", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, before+1, testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/api/v1/wallets/balance", "200")))
	})

	t.Run("WebhookIsPublicButSigned", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/bridgecard", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
