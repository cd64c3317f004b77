package handler

import (
	"net/http"

	"github.com/honeynil/KeecashLedger/internal/models"
	service "github.com/honeynil/KeecashLedger/internal/services"
)

func (h *Handler) DepositQuote(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	amount, err := queryAmount(r, "amount")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	q := r.URL.Query()
	quote, err := h.wallet.DepositQuote(r.Context(), p, models.Currency(q.Get("currency")), models.CryptoCurrency(q.Get("method")), amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote.Breakdown)
}

func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req service.DepositRequest
	if !h.decode(w, r, &req) {
		return
	}

	link, err := h.wallet.CreateDepositLink(r.Context(), p, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *Handler) WithdrawalQuote(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	amount, err := queryAmount(r, "amount")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	q := r.URL.Query()
	quote, err := h.wallet.WithdrawalQuote(r.Context(), p, models.Currency(q.Get("currency")), models.CryptoCurrency(q.Get("method")), amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote.Breakdown)
}

func (h *Handler) ApplyWithdrawal(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req service.WithdrawalRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx, err := h.wallet.ApplyWithdrawal(r.Context(), p, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, tx)
}

func (h *Handler) TransferQuote(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	amount, err := queryAmount(r, "amount")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	quote, err := h.wallet.TransferQuote(r.Context(), p, models.Currency(r.URL.Query().Get("currency")), amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote.Breakdown)
}

func (h *Handler) ApplyTransfer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req service.TransferRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.wallet.ApplyTransfer(r.Context(), p, req); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "performed"})
}
