package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/redis"
	redismocks "github.com/honeynil/KeecashLedger/internal/infrastructure/redis/mocks"
	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var jane = models.Principal{UserID: 1, CountryID: 33, Email: "jane@example.com", ReferralID: "SV08DV8"}

func TestParseToken(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		token, err := IssueToken([]byte(testSecret), jane, time.Hour)
		require.NoError(t, err)

		p, err := ParseToken([]byte(testSecret), token)
		require.NoError(t, err)
		assert.Equal(t, jane, *p)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := IssueToken([]byte("other"), jane, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken([]byte(testSecret), token)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidToken)
		assert.ErrorIs(t, err, pkgerrors.ErrAuthentication)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := IssueToken([]byte(testSecret), jane, -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken([]byte(testSecret), token)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidToken)
	})

	t.Run("MissingUser", func(t *testing.T) {
		token, err := IssueToken([]byte(testSecret), models.Principal{Email: "x@example.com"}, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken([]byte(testSecret), token)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidToken)
	})
}

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	redisClient := redismocks.NewMockRedisClient(ctrl)

	var got models.Principal
	handler := AuthMiddleware(redisClient, testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		got = p
		w.WriteHeader(http.StatusNoContent)
	}))

	token, err := IssueToken([]byte(testSecret), jane, time.Hour)
	require.NoError(t, err)

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/balance", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Success", func(t *testing.T) {
		redisClient.EXPECT().Get(gomock.Any(), "user:1:token").Return(token, nil)

		rec := serve("Bearer " + token)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, jane, got)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("").Code)
	})

	t.Run("NotBearer", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("Basic abc").Code)
	})

	t.Run("Revoked", func(t *testing.T) {
		redisClient.EXPECT().Get(gomock.Any(), "user:1:token").Return("", redis.ErrKeyNotFound)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token).Code)
	})

	t.Run("Replaced", func(t *testing.T) {
		redisClient.EXPECT().Get(gomock.Any(), "user:1:token").Return("newer-token", nil)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token).Code)
	})

	t.Run("RedisDown", func(t *testing.T) {
		redisClient.EXPECT().Get(gomock.Any(), "user:1:token").Return("", errors.New("connection refused"))
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token).Code)
	})
}
