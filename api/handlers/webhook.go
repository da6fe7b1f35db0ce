package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/festival-registration-api/config"
	"github.com/linesmerrill/festival-registration-api/flutterwave"
	"github.com/linesmerrill/festival-registration-api/models"
	"github.com/linesmerrill/festival-registration-api/registration"
)

const webhookProcessed = "Webhook processed successfully"

// Webhook receives payment notifications from Flutterwave
type Webhook struct {
	Service *registration.Service
	HashKey string
}

// WebhookHandler finalizes the payment a signed charge.completed event reports.
// Anything the provider should not retry is acknowledged with 200.
func (h Webhook) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	if !flutterwave.ValidSignature(r.Header.Get(flutterwave.SignatureHeader), h.HashKey) {
		zap.S().Warnw("webhook rejected", "remote", r.RemoteAddr)
		config.WriteJSON(w, http.StatusForbidden, models.MessageResponse{Message: "Invalid signature"})
		return
	}

	var event flutterwave.WebhookEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&event); err != nil {
		config.WriteJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Invalid payload"})
		return
	}

	ctx, cancel := finalizeContext(r)
	defer cancel()

	out, handled, err := h.Service.HandleWebhookEvent(ctx, event)
	switch {
	case err != nil && reasonOf(err) == registration.REASON_PENDING_PAYMENT_NOT_FOUND:
		zap.S().Warnw("Pending payment not found for webhook", "tx_ref", event.Data.TxRef)
	case err != nil:
		writeError(w, err)
		return
	case handled && out.Duplicate:
		zap.S().Infow("webhook for an already finalized payment", "tx_ref", event.Data.TxRef)
	}

	config.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: webhookProcessed})
}

// finalizeContext keeps request values but not cancellation, so a payer or
// provider hanging up cannot abort a finalize between its writes
func finalizeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), RequestTimeout)
}
