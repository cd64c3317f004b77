package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/honeynil/KeecashLedger/internal/webhook"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
)

const maxWebhookBody = 1 << 20

// readBody returns the raw body; signatures are computed over these exact bytes.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidPayload, err)
	}
	return body, nil
}

func (h *Handler) TripleADeposit(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if err := h.tripleAVerifier.Verify(r.Header.Get(webhook.TripleASignatureHeader), body); err != nil {
		slog.Warn("rejected triplea deposit webhook", "error", err)
		h.writeServiceError(w, err)
		return
	}

	var event webhook.DepositEvent
	if err := webhook.Decode(body, &event); err != nil {
		slog.Warn("invalid triplea deposit webhook", "error", err)
		h.writeServiceError(w, err)
		return
	}

	if err := h.reconciliation.HandleDeposit(r.Context(), event); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) TripleAWithdrawal(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if err := h.tripleAVerifier.Verify(r.Header.Get(webhook.TripleASignatureHeader), body); err != nil {
		slog.Warn("rejected triplea withdrawal webhook", "error", err)
		h.writeServiceError(w, err)
		return
	}

	var event webhook.WithdrawalEvent
	if err := webhook.Decode(body, &event); err != nil {
		slog.Warn("invalid triplea withdrawal webhook", "error", err)
		h.writeServiceError(w, err)
		return
	}

	if err := h.reconciliation.HandleWithdrawal(r.Context(), event); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) BridgecardEvent(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if err := webhook.VerifyBody(h.bridgecardSecret, r.Header.Get(webhook.BridgecardSignatureHeader), body); err != nil {
		slog.Warn("rejected bridgecard webhook", "error", err)
		h.writeServiceError(w, err)
		return
	}

	var event webhook.CardEvent
	if err := webhook.Decode(body, &event); err != nil {
		slog.Warn("invalid bridgecard webhook", "error", err)
		h.writeServiceError(w, err)
		return
	}

	if err := h.reconciliation.HandleCardEvent(r.Context(), event); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
