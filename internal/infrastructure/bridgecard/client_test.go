package bridgecard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/honeynil/KeecashLedger/internal/config"
	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.BridgecardConfig{BaseURL: srv.URL, AuthToken: "bc-token", Timeout: time.Second})
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(10350), ToMinor(decimal.RequireFromString("103.50")))
	assert.Equal(t, int64(1), ToMinor(decimal.RequireFromString("0.005")))
	assert.True(t, FromMinor(10350).Equal(decimal.RequireFromString("103.5")))
}

func TestClient_CreateCard(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/cards/create_card", r.URL.Path)
			assert.Equal(t, "Bearer bc-token", r.Header.Get("token"))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ch-1", body["cardholder_id"])
			w.Write([]byte(`{"status":"success","message":"ok","data":{"card_id":"card-9"}}`))
		})

		id, err := client.CreateCard(context.Background(), CreateCardRequest{CardholderID: "ch-1", Currency: models.CurrencyUSD, UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, "card-9", id)
	})

	t.Run("ProviderRejects", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":"failed","message":"cardholder not verified"}`))
		})

		id, err := client.CreateCard(context.Background(), CreateCardRequest{CardholderID: "ch-1"})
		assert.Empty(t, id)
		assert.ErrorIs(t, err, pkgerrors.ErrProvider)
	})
}

func TestClient_FundCard(t *testing.T) {
	t.Run("SendsMinorUnits", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/cards/fund_card_asynchronously", r.URL.Path)
			var body fundRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, fundRequest{CardID: "card-9", Amount: "2500", TransactionReference: "ref-1", Currency: "USD"}, body)
			w.Write([]byte(`{"status":"success","message":"queued"}`))
		})

		err := client.FundCard(context.Background(), "card-9", 2500, "ref-1", models.CurrencyUSD)
		assert.NoError(t, err)
	})

	t.Run("RejectsNonPositive", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		assert.ErrorIs(t, client.UnloadCard(context.Background(), "card-9", 0, "ref-1", models.CurrencyUSD), pkgerrors.ErrInvalidAmount)
	})
}

func TestClient_Freeze(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cards/freeze_card", r.URL.Path)
		assert.Equal(t, "card-9", r.URL.Query().Get("card_id"))
		w.Write([]byte(`{"status":"success"}`))
	})
	assert.NoError(t, client.FreezeCard(context.Background(), "card-9"))
}

func TestClient_GetCardBalance(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cards/get_card_balance", r.URL.Path)
		w.Write([]byte(`{"status":"success","data":{"balance":"4210"}}`))
	})

	balance, err := client.GetCardBalance(context.Background(), "card-9")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("42.10")))
}

func TestClient_GetCardTransactions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{"transactions":[
			{"amount":"1999","currency":"USD","description":"Netflix","transaction_date":"2024-01-02"},
			{"amount":"12.5","currency":"USD","description":"bad","transaction_date":"2024-01-03"}
		]}}`))
	})

	activity, err := client.GetCardTransactions(context.Background(), "card-9")
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, "Netflix", activity[0].Description)
	assert.True(t, activity[0].Amount.Equal(decimal.RequireFromString("19.99")))
}
