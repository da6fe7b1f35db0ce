package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/linesmerrill/festival-registration-api/databases"
	"github.com/linesmerrill/festival-registration-api/flutterwave"
	"github.com/linesmerrill/festival-registration-api/models"
)

const maxRegistrationIDAttempts = 3

// Outcome describes what a confirmation trigger achieved. Duplicate is set when
// the payment had already been turned into a registrant by someone else.
type Outcome struct {
	Registrant *models.Registrant
	Pending    *models.PendingPayment
	Duplicate  bool
}

// Summary returns the registrant summary, falling back to the attempt's
// profile while a concurrent finalize is still writing the registrant
func (o Outcome) Summary() models.RegistrantSummary {
	if o.Registrant != nil {
		return o.Registrant.Summary()
	}
	if o.Pending != nil {
		return models.RegistrantSummary{FullName: o.Pending.FullName, Email: o.Pending.Email}
	}
	return models.RegistrantSummary{}
}

// FinalizeSuccessfulPayment turns a confirmed payment into exactly one
// registrant. It is safe to call any number of times, concurrently, from any
// trigger: only the caller that flips the attempt to successful creates the
// registrant and sends the email.
func (s *Service) FinalizeSuccessfulPayment(ctx context.Context, txRef string) (Outcome, error) {
	p, err := s.pending.FindByTxRef(ctx, txRef)
	if errors.Is(err, databases.ErrNotFound) {
		return Outcome{}, NewPendingPaymentNotFoundError("Pending payment not found", err)
	}
	if err != nil {
		return Outcome{}, NewFailedToFetchError("Failed to look up pending payment", err)
	}

	if p.Status == models.PaymentStatusSuccessful {
		return s.duplicateOutcome(ctx, p)
	}

	if reg, err := s.registrants.FindByEmail(ctx, p.Email); err == nil {
		if reg.TxRef != txRef {
			s.retireDuplicateCharge(ctx, *p, reg)
		}
		return Outcome{Registrant: reg, Pending: p, Duplicate: true}, nil
	} else if !errors.Is(err, databases.ErrNotFound) {
		return Outcome{}, NewFailedToFetchError("Failed to look up registrant", err)
	}

	won, applied, err := s.pending.MarkSuccessful(ctx, txRef)
	if err != nil {
		return Outcome{}, NewFailedToWriteError("Failed to update pending payment", err)
	}
	if !applied {
		return s.lostRace(ctx, txRef)
	}

	reg, png, duplicate, err := s.createRegistrant(ctx, *won)
	if err != nil {
		if rerr := s.pending.RevertToPending(context.WithoutCancel(ctx), txRef); rerr != nil {
			zap.S().Errorw("failed to revert payment after registrant write failed; needs manual reconciliation",
				"tx_ref", txRef,
				"email", won.Email,
				"error", rerr,
			)
		}
		return Outcome{}, err
	}
	if duplicate {
		return Outcome{Registrant: reg, Pending: won, Duplicate: true}, nil
	}

	zap.S().Infow("registration finalized",
		"tx_ref", txRef,
		"email", reg.Email,
		"registrationId", reg.RegistrationID,
	)

	s.sendConfirmation(*reg, png)
	if s.publisher != nil {
		s.publisher.Publish(*reg)
	}

	return Outcome{Registrant: reg, Pending: won}, nil
}

// lostRace works out why MarkSuccessful did not apply. Only an attempt that is
// now successful was finalized by someone else; one that vanished was
// superseded by a new submission and has nothing left to finalize.
func (s *Service) lostRace(ctx context.Context, txRef string) (Outcome, error) {
	p, err := s.pending.FindByTxRef(ctx, txRef)
	if errors.Is(err, databases.ErrNotFound) {
		zap.S().Errorw("payment attempt removed before it could be finalized; needs refund or manual registration",
			"tx_ref", txRef,
		)
		return Outcome{}, NewPendingPaymentNotFoundError("Pending payment not found", err)
	}
	if err != nil {
		return Outcome{}, NewFailedToFetchError("Failed to look up pending payment", err)
	}
	if p.Status != models.PaymentStatusSuccessful {
		return Outcome{}, NewFailedToWriteError("Failed to update pending payment",
			fmt.Errorf("attempt is %s after a rejected update", p.Status))
	}
	return s.duplicateOutcome(ctx, p)
}

// retireDuplicateCharge marks a paid attempt failed when its email was already
// registered through another attempt, so the sweep stops polling it. The
// second charge has to be refunded by hand.
func (s *Service) retireDuplicateCharge(ctx context.Context, p models.PendingPayment, reg *models.Registrant) {
	changed, err := s.pending.MarkFailed(ctx, p.TxRef)
	if err != nil {
		zap.S().Errorw("failed to retire payment for an already registered email",
			"tx_ref", p.TxRef,
			"email", p.Email,
			"error", err,
		)
		return
	}
	zap.S().Warnw("payment confirmed for an email that is already registered",
		"tx_ref", p.TxRef,
		"registeredTxRef", reg.TxRef,
		"email", p.Email,
		"registrationId", reg.RegistrationID,
		"retired", changed,
		"needsRefund", true,
	)
}

func (s *Service) duplicateOutcome(ctx context.Context, p *models.PendingPayment) (Outcome, error) {
	reg, err := s.registrants.FindByEmail(ctx, p.Email)
	switch {
	case err == nil:
		return Outcome{Registrant: reg, Pending: p, Duplicate: true}, nil
	case errors.Is(err, databases.ErrNotFound):
		return Outcome{Pending: p, Duplicate: true}, nil
	}
	return Outcome{}, NewFailedToFetchError("Failed to look up registrant", err)
}

// createRegistrant stores the registrant for a won attempt. A unique email
// violation means another attempt for the same person got there first; its
// registrant is returned with duplicate set.
func (s *Service) createRegistrant(ctx context.Context, p models.PendingPayment) (*models.Registrant, []byte, bool, error) {
	for attempt := 1; attempt <= maxRegistrationIDAttempts; attempt++ {
		code, err := s.qr.Issue(p.FullName, p.Email)
		if err != nil {
			return nil, nil, false, NewQRGenerationFailedError("Failed to generate QR code", err)
		}

		now := s.now()
		reg := models.Registrant{
			Profile:        p.Profile,
			RegistrationID: code.RegistrationID,
			TxRef:          p.TxRef,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		id, err := s.registrants.InsertOne(ctx, reg)
		switch {
		case err == nil:
			reg.ID = id
			return &reg, code.PNG, false, nil
		case databases.IsDuplicateOn(err, databases.IndexRegistrantEmail):
			existing, ferr := s.registrants.FindByEmail(ctx, p.Email)
			if ferr != nil {
				return nil, nil, false, NewFailedToFetchError("Failed to look up registrant", ferr)
			}
			zap.S().Infow("registrant already created by a concurrent confirmation", "tx_ref", p.TxRef, "email", p.Email)
			return existing, nil, true, nil
		case databases.IsDuplicateOn(err, databases.IndexRegistrantRegistrationID):
			zap.S().Warnw("registration id collision, issuing a new one", "registrationId", code.RegistrationID, "attempt", attempt)
			continue
		default:
			return nil, nil, false, NewFailedToWriteError("Failed to save registrant", err)
		}
	}
	return nil, nil, false, NewFailedToWriteError("Failed to save registrant",
		fmt.Errorf("no free registration id after %d attempts", maxRegistrationIDAttempts))
}

// sendConfirmation emails the registrant in the background. Delivery failures
// are logged and never undo the registration.
func (s *Service) sendConfirmation(reg models.Registrant, png []byte) {
	s.emails.Add(1)
	go func() {
		defer s.emails.Done()
		defer func() {
			if r := recover(); r != nil {
				zap.S().Errorw("panic while sending confirmation email", "panic", r, "email", reg.Email)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), EmailTimeout)
		defer cancel()

		if err := s.notifier.SendConfirmation(ctx, reg, png); err != nil {
			zap.S().Errorw("failed to send confirmation email",
				"email", reg.Email,
				"registrationId", reg.RegistrationID,
				"error", err,
			)
			return
		}
		zap.S().Infow("confirmation email sent", "email", reg.Email, "registrationId", reg.RegistrationID)
	}()
}

// VerifyPayment confirms a payment the payer was redirected back from
func (s *Service) VerifyPayment(ctx context.Context, txRef, transactionID string) (Outcome, error) {
	if txRef == "" || transactionID == "" {
		return Outcome{}, NewInvalidSubmissionError("tx_ref and transaction_id are required", nil)
	}

	p, err := s.pending.FindByTxRef(ctx, txRef)
	if errors.Is(err, databases.ErrNotFound) {
		return Outcome{}, NewPendingPaymentNotFoundError("Pending payment not found", err)
	}
	if err != nil {
		return Outcome{}, NewFailedToFetchError("Failed to look up pending payment", err)
	}
	if p.Status == models.PaymentStatusSuccessful {
		return s.duplicateOutcome(ctx, p)
	}

	resp, err := s.gateway.VerifyTransaction(ctx, transactionID)
	if err != nil {
		return Outcome{}, NewVerificationFailedError("Payment verification failed", err)
	}
	if err := confirmsPayment(*p, resp); err != nil {
		return Outcome{}, NewVerificationFailedError("Payment verification failed", err)
	}

	return s.FinalizeSuccessfulPayment(ctx, txRef)
}

// confirmsPayment checks that the gateway's view of a transaction pays for p
func confirmsPayment(p models.PendingPayment, resp *flutterwave.TransactionResponse) error {
	if !resp.Successful() {
		return fmt.Errorf("transaction status %q/%q", resp.Status, resp.Data.Status)
	}
	if resp.Data.TxRef != p.TxRef {
		return fmt.Errorf("transaction belongs to %q, not %q", resp.Data.TxRef, p.TxRef)
	}
	if !strings.EqualFold(resp.Data.Currency, Currency) {
		return fmt.Errorf("transaction currency %q", resp.Data.Currency)
	}
	expected := p.Amount
	if expected == 0 {
		expected = MinimumFee
	}
	if resp.Data.Amount < float64(expected) {
		return fmt.Errorf("transaction amount %.2f below expected %d", resp.Data.Amount, expected)
	}
	return nil
}

// HandleWebhookEvent finalizes the payment a webhook reports as successful.
// The bool is false when the event is not one this service acts on.
func (s *Service) HandleWebhookEvent(ctx context.Context, e flutterwave.WebhookEvent) (Outcome, bool, error) {
	if !e.ChargeSucceeded() || e.Data.TxRef == "" {
		zap.S().Infow("ignoring webhook event",
			"event", e.Event,
			"status", e.Data.Status,
			"tx_ref", e.Data.TxRef,
		)
		return Outcome{}, false, nil
	}

	out, err := s.FinalizeSuccessfulPayment(ctx, e.Data.TxRef)
	return out, true, err
}
