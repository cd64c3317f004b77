package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/honeynil/KeecashLedger/internal/models"
	service "github.com/honeynil/KeecashLedger/internal/services"
	"github.com/shopspring/decimal"
)

type cardAmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	cards, err := h.cards.List(r.Context(), p)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) CreateCardQuote(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	topup, err := queryAmount(r, "topup_amount")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	q := r.URL.Query()
	quote, err := h.cards.CreateCardQuote(r.Context(), p, models.Currency(q.Get("currency")), models.CardUsage(q.Get("usage")), topup)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req service.CreateCardRequest
	if !h.decode(w, r, &req) {
		return
	}

	card, err := h.cards.CreateCard(r.Context(), p, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) CardTopupQuote(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	amount, err := queryAmount(r, "amount")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	quote, err := h.cards.TopupQuote(r.Context(), p, mux.Vars(r)["id"], amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote.Breakdown)
}

func (h *Handler) CardTopup(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req cardAmountRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.cards.Topup(r.Context(), p, mux.Vars(r)["id"], req.Amount); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "performed"})
}

func (h *Handler) CardWithdrawalQuote(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	amount, err := queryAmount(r, "amount")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	quote, err := h.cards.WithdrawalQuote(r.Context(), p, mux.Vars(r)["id"], amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote.Breakdown)
}

func (h *Handler) CardWithdrawal(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req cardAmountRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.cards.Withdraw(r.Context(), p, mux.Vars(r)["id"], req.Amount); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "performed"})
}

func (h *Handler) FreezeCard(w http.ResponseWriter, r *http.Request) {
	h.cardAction(w, r, h.cards.Freeze)
}

func (h *Handler) UnfreezeCard(w http.ResponseWriter, r *http.Request) {
	h.cardAction(w, r, h.cards.Unfreeze)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	h.cardAction(w, r, h.cards.Delete)
}

func (h *Handler) cardAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, p models.Principal, cardID string) error) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	if err := action(r.Context(), p, mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CardTransactions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	activity, err := h.cards.Transactions(r.Context(), p, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}
