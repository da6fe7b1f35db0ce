package registration

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/festival-registration-api/databases"
	"github.com/linesmerrill/festival-registration-api/flutterwave"
	"github.com/linesmerrill/festival-registration-api/models"
	"github.com/linesmerrill/festival-registration-api/qr"
)

const (
	// PendingWindow is how long a pending attempt blocks a new one for the same email
	PendingWindow = 5 * time.Minute
	// EmailTimeout bounds a confirmation email including its retries
	EmailTimeout = 30 * time.Second

	CheckoutTitle       = "Jesus Festival"
	CheckoutDescription = "Payment for Jesus Festival Registration"
)

// Gateway is the payment provider
type Gateway interface {
	CreatePayment(ctx context.Context, req flutterwave.PaymentRequest) (*flutterwave.PaymentResponse, error)
	VerifyTransaction(ctx context.Context, transactionID string) (*flutterwave.TransactionResponse, error)
	VerifyByReference(ctx context.Context, txRef string) (*flutterwave.TransactionResponse, error)
}

// QRIssuer hands out registration ids with their QR image
type QRIssuer interface {
	Issue(name, email string) (qr.Code, error)
}

// Notifier delivers the confirmation email
type Notifier interface {
	SendConfirmation(ctx context.Context, reg models.Registrant, qrPNG []byte) error
}

// Publisher is told about every new registrant
type Publisher interface {
	Publish(reg models.Registrant)
}

// Deps are the collaborators a Service needs. Publisher is optional.
type Deps struct {
	Pending     databases.PendingPaymentDatabase
	Registrants databases.RegistrantDatabase
	Gateway     Gateway
	QR          QRIssuer
	Notifier    Notifier
	Publisher   Publisher
}

// Settings holds the public urls used to build redirects
type Settings struct {
	// BaseURL is where this API is reachable
	BaseURL string
	// FrontendURL is where the gateway sends the payer back to
	FrontendURL string
}

// Service runs registration intake, payment initiation and reconciliation
type Service struct {
	pending     databases.PendingPaymentDatabase
	registrants databases.RegistrantDatabase
	gateway     Gateway
	qr          QRIssuer
	notifier    Notifier
	publisher   Publisher
	settings    Settings
	now         func() time.Time
	emails      sync.WaitGroup
}

// NewService wires a Service
func NewService(deps Deps, settings Settings) *Service {
	return &Service{
		pending:     deps.Pending,
		registrants: deps.Registrants,
		gateway:     deps.Gateway,
		qr:          deps.QR,
		notifier:    deps.Notifier,
		publisher:   deps.Publisher,
		settings:    settings,
		now:         time.Now,
	}
}

// PendingRegistration is returned once a submission is accepted
type PendingRegistration struct {
	TxRef      string
	RedirectTo string
}

// CreatePendingRegistration validates a raw form submission and stores it as a
// pending payment attempt
func (s *Service) CreatePendingRegistration(ctx context.Context, raw []byte) (PendingRegistration, error) {
	profile, err := ParseSubmission(raw)
	if err != nil {
		return PendingRegistration{}, err
	}

	if err := s.clearPreviousAttempt(ctx, profile.Email); err != nil {
		return PendingRegistration{}, err
	}

	now := s.now()
	txRef, err := NewTxRef(now)
	if err != nil {
		return PendingRegistration{}, NewFailedToWriteError("Failed to create pending payment", err)
	}

	p := models.PendingPayment{
		TxRef:     txRef,
		Profile:   profile,
		Status:    models.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.pending.InsertOne(ctx, p); err != nil {
		if databases.IsDuplicateOn(err, databases.IndexPendingEmail) {
			return PendingRegistration{}, NewPendingRegistrationExistsError(pendingExistsMessage, err)
		}
		return PendingRegistration{}, NewFailedToWriteError("Failed to create pending payment", err)
	}

	zap.S().Infow("pending registration created", "tx_ref", txRef, "email", profile.Email)

	return PendingRegistration{
		TxRef:      txRef,
		RedirectTo: s.settings.BaseURL + "/api/make-payment?tx_ref=" + url.QueryEscape(txRef),
	}, nil
}

const pendingExistsMessage = "A pending registration already exists. Please wait or retry in a few minutes."

// clearPreviousAttempt rejects emails that already paid or have a fresh
// attempt in flight, and deletes a stale or failed attempt otherwise
func (s *Service) clearPreviousAttempt(ctx context.Context, email string) error {
	if _, err := s.registrants.FindByEmail(ctx, email); err == nil {
		return NewAlreadyRegisteredError("Email already registered and paid", nil)
	} else if !errors.Is(err, databases.ErrNotFound) {
		return NewFailedToFetchError("Failed to look up registrant", err)
	}

	existing, err := s.pending.FindByEmail(ctx, email)
	if errors.Is(err, databases.ErrNotFound) {
		return nil
	}
	if err != nil {
		return NewFailedToFetchError("Failed to look up pending payment", err)
	}

	switch existing.Status {
	case models.PaymentStatusSuccessful:
		return NewAlreadyRegisteredError("Email already registered and paid", nil)
	case models.PaymentStatusPending:
		if !existing.StaleAfter(PendingWindow, s.now()) {
			return NewPendingRegistrationExistsError(pendingExistsMessage, nil)
		}
	}

	if err := s.pending.DeleteOne(ctx, existing.ID); err != nil {
		return NewFailedToWriteError("Failed to remove previous pending payment", err)
	}
	zap.S().Infow("superseded previous payment attempt",
		"tx_ref", existing.TxRef,
		"status", existing.Status,
		"email", email,
	)
	return nil
}

// InitiatePayment records the amount on the attempt and returns the gateway's
// hosted checkout link
func (s *Service) InitiatePayment(ctx context.Context, txRef string, amount float64) (string, error) {
	naira, err := checkAmount(amount)
	if err != nil {
		return "", err
	}

	p, err := s.pending.FindByTxRef(ctx, txRef)
	if errors.Is(err, databases.ErrNotFound) {
		return "", NewPendingPaymentNotFoundError("Pending payment not found", err)
	}
	if err != nil {
		return "", NewFailedToFetchError("Failed to look up pending payment", err)
	}
	if p.Status == models.PaymentStatusSuccessful {
		return "", NewPaymentAlreadySuccessfulError("Payment already successful", nil)
	}

	p, err = s.pending.SetAmount(ctx, txRef, naira)
	if errors.Is(err, databases.ErrNotFound) {
		return "", NewPaymentAlreadySuccessfulError("Payment already successful", err)
	}
	if err != nil {
		return "", NewFailedToWriteError("Failed to update pending payment", err)
	}

	resp, err := s.gateway.CreatePayment(ctx, flutterwave.PaymentRequest{
		TxRef:       txRef,
		Amount:      naira,
		Currency:    Currency,
		RedirectURL: s.settings.FrontendURL + "/payment?tx_ref=" + url.QueryEscape(txRef),
		Customer: flutterwave.Customer{
			Email: p.Email,
			Name:  p.FullName,
		},
		Customizations: flutterwave.Customizations{
			Title:       CheckoutTitle,
			Description: CheckoutDescription,
		},
	})
	if err != nil {
		return "", NewPaymentInitiationFailedError("Failed to initiate payment", err)
	}
	if resp.Status != flutterwave.StatusSuccess || resp.Data.Link == "" {
		return "", NewPaymentInitiationFailedError("Failed to initiate payment",
			fmt.Errorf("gateway answered %q: %s", resp.Status, resp.Message))
	}

	zap.S().Infow("payment initiated",
		"tx_ref", txRef,
		"amount", Fee(naira).Display(),
	)
	return resp.Data.Link, nil
}

// ListRegistrants returns every registrant, newest first
func (s *Service) ListRegistrants(ctx context.Context) ([]models.Registrant, error) {
	registrants, err := s.registrants.FindAll(ctx)
	if err != nil {
		return nil, NewFailedToFetchError("Failed to fetch registrants", err)
	}
	return registrants, nil
}

// Wait blocks until confirmation emails already started have finished
func (s *Service) Wait() {
	s.emails.Wait()
}
