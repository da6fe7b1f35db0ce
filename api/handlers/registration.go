package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/linesmerrill/festival-registration-api/api"
	"github.com/linesmerrill/festival-registration-api/config"
	"github.com/linesmerrill/festival-registration-api/models"
	"github.com/linesmerrill/festival-registration-api/registration"
)

// maxBodyBytes caps request bodies; a registration form is well under 4KB
const maxBodyBytes = 64 << 10

// Registration exposes the registration service over http
type Registration struct {
	Service *registration.Service
}

type registerResponse struct {
	Message    string `json:"message"`
	TxRef      string `json:"tx_ref"`
	RedirectTo string `json:"redirectTo"`
}

type makePaymentRequest struct {
	Amount *float64 `json:"amount"`
}

type makePaymentResponse struct {
	Message    string `json:"message"`
	PaymentURL string `json:"paymentUrl"`
}

type verifyResponse struct {
	Message string                   `json:"message"`
	Student models.RegistrantSummary `json:"student"`
}

// RegisterHandler validates a registration form and creates a pending payment
func (h Registration) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		config.WriteJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Invalid data"})
		return
	}

	pending, err := h.Service.CreatePendingRegistration(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, registerResponse{
		Message:    "pending payment created successfully",
		TxRef:      pending.TxRef,
		RedirectTo: pending.RedirectTo,
	})
}

// MakePaymentHandler records the amount and returns the hosted checkout link
func (h Registration) MakePaymentHandler(w http.ResponseWriter, r *http.Request) {
	txRef := r.URL.Query().Get("tx_ref")

	var req makePaymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil || req.Amount == nil {
		config.WriteJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Invalid amount"})
		return
	}
	if txRef == "" {
		config.WriteJSON(w, http.StatusNotFound, models.MessageResponse{Message: "Pending payment not found"})
		return
	}

	link, err := h.Service.InitiatePayment(r.Context(), txRef, *req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, makePaymentResponse{
		Message:    "Payment initiated successfully",
		PaymentURL: link,
	})
}

// VerifyPaymentHandler confirms a payment when the payer returns from checkout
func (h Registration) VerifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx, cancel := finalizeContext(r)
	defer cancel()

	out, err := h.Service.VerifyPayment(ctx, q.Get("tx_ref"), q.Get("transaction_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, verifyResponse{
		Message: "Payment verified successfully",
		Student: out.Summary(),
	})
}

// StudentsHandler lists every registrant, newest first
func (h Registration) StudentsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	registrants, err := h.Service.ListRegistrants(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if registrants == nil {
		registrants = []models.Registrant{}
	}

	config.WriteJSON(w, http.StatusOK, registrants)
}
