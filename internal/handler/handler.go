package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/auth"
	"github.com/honeynil/KeecashLedger/internal/models"
	service "github.com/honeynil/KeecashLedger/internal/services"
	"github.com/honeynil/KeecashLedger/internal/webhook"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
)

type Handler struct {
	ledger         service.LedgerService
	wallet         service.WalletService
	cards          service.CardService
	reconciliation service.ReconciliationService

	tripleAVerifier  *webhook.Verifier
	bridgecardSecret string
}

func NewHandler(
	ledger service.LedgerService,
	wallet service.WalletService,
	cards service.CardService,
	reconciliation service.ReconciliationService,
	tripleAVerifier *webhook.Verifier,
	bridgecardSecret string,
) *Handler {
	return &Handler{
		ledger:           ledger,
		wallet:           wallet,
		cards:            cards,
		reconciliation:   reconciliation,
		tripleAVerifier:  tripleAVerifier,
		bridgecardSecret: bridgecardSecret,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeServiceError maps service errors to HTTP statuses. Unknown errors are
// not exposed to the caller.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrBalanceLocked):
		h.writeError(w, http.StatusConflict, pkgerrors.ErrBalanceLocked)
	case errors.Is(err, pkgerrors.ErrValidation), errors.Is(err, pkgerrors.ErrInsufficientFunds):
		h.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, pkgerrors.ErrAuthentication):
		h.writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, pkgerrors.ErrProvider):
		h.writeError(w, http.StatusBadGateway, pkgerrors.ErrProvider)
	default:
		h.writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/webhooks/triplea/deposit", h.TripleADeposit).Methods("POST")
	r.HandleFunc("/webhooks/triplea/withdrawal", h.TripleAWithdrawal).Methods("POST")
	r.HandleFunc("/webhooks/bridgecard", h.BridgecardEvent).Methods("POST")
}

func (h *Handler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/wallets/balance", h.GetBalance).Methods("GET")
	r.HandleFunc("/wallets/settings", h.WalletSettings).Methods("GET")
	r.HandleFunc("/transactions", h.GetTransactionHistory).Methods("GET")

	r.HandleFunc("/deposits/quote", h.DepositQuote).Methods("GET")
	r.HandleFunc("/deposits", h.CreateDeposit).Methods("POST")
	r.HandleFunc("/withdrawals/quote", h.WithdrawalQuote).Methods("GET")
	r.HandleFunc("/withdrawals", h.ApplyWithdrawal).Methods("POST")
	r.HandleFunc("/transfers/quote", h.TransferQuote).Methods("GET")
	r.HandleFunc("/transfers", h.ApplyTransfer).Methods("POST")

	r.HandleFunc("/cards", h.ListCards).Methods("GET")
	r.HandleFunc("/cards/quote", h.CreateCardQuote).Methods("GET")
	r.HandleFunc("/cards", h.CreateCard).Methods("POST")
	r.HandleFunc("/cards/{id}/topup/quote", h.CardTopupQuote).Methods("GET")
	r.HandleFunc("/cards/{id}/topup", h.CardTopup).Methods("POST")
	r.HandleFunc("/cards/{id}/withdrawal/quote", h.CardWithdrawalQuote).Methods("GET")
	r.HandleFunc("/cards/{id}/withdrawal", h.CardWithdrawal).Methods("POST")
	r.HandleFunc("/cards/{id}/freeze", h.FreezeCard).Methods("POST")
	r.HandleFunc("/cards/{id}/unfreeze", h.UnfreezeCard).Methods("POST")
	r.HandleFunc("/cards/{id}/transactions", h.CardTransactions).Methods("GET")
	r.HandleFunc("/cards/{id}", h.DeleteCard).Methods("DELETE")
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, errors.New("user not authenticated"))
	}
	return p, ok
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func queryAmount(r *http.Request, key string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(r.URL.Query().Get(key))
	if err != nil {
		return decimal.Zero, pkgerrors.ErrInvalidAmount
	}
	return amount, nil
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	if currency := r.URL.Query().Get("currency"); currency != "" {
		balance, err := h.ledger.GetBalance(r.Context(), p.UserID, models.Currency(currency))
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"balance": balance})
		return
	}

	balances, err := h.ledger.GetBalances(r.Context(), p.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

func (h *Handler) WalletSettings(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	settings, err := h.wallet.Settings(r.Context(), p, models.FeeOperation(r.URL.Query().Get("operation")))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	filter.UserID = p.UserID

	transactions, err := h.ledger.History(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func parseFilter(r *http.Request) (models.TransactionFilter, error) {
	q := r.URL.Query()
	filter := models.TransactionFilter{Currency: models.Currency(q.Get("currency"))}

	for _, t := range splitParam(q.Get("types")) {
		filter.Types = append(filter.Types, models.TransactionType(t))
	}
	for _, c := range splitParam(q.Get("crypto_types")) {
		filter.CryptoTypes = append(filter.CryptoTypes, models.CryptoCurrency(c))
	}

	for key, dst := range map[string]*decimal.NullDecimal{"from_amount": &filter.FromAmount, "to_amount": &filter.ToAmount} {
		if v := q.Get(key); v != "" {
			amount, err := decimal.NewFromString(v)
			if err != nil {
				return filter, pkgerrors.ErrInvalidAmount
			}
			*dst = decimal.NewNullDecimal(amount)
		}
	}

	for key, dst := range map[string]**time.Time{"from_date": &filter.FromDate, "to_date": &filter.ToDate} {
		if v := q.Get(key); v != "" {
			t, err := parseDate(v)
			if err != nil {
				return filter, errors.New("invalid " + key)
			}
			*dst = &t
		}
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = limit
	}
	return filter, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}

func splitParam(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
