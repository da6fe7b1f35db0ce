package registration

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/festival-registration-api/flutterwave"
)

const (
	// ReconcileMinAge leaves fresh attempts to the verify and webhook triggers
	ReconcileMinAge = 15 * time.Minute
	// ReconcileMaxAge stops asking the gateway about abandoned attempts
	ReconcileMaxAge = 48 * time.Hour
	// ReconcileBatchSize caps gateway calls per sweep
	ReconcileBatchSize = 100
)

// ReconcileReport counts what a sweep did
type ReconcileReport struct {
	Checked   int
	Finalized int
	Failed    int
	Errors    int
}

// ReconcileAwaitingPayments asks the gateway about attempts whose charge was
// started but never confirmed. Confirmed ones are finalized, declined ones are
// marked failed and the rest are left for the next sweep.
func (s *Service) ReconcileAwaitingPayments(ctx context.Context) (ReconcileReport, error) {
	now := s.now()
	payments, err := s.pending.FindAwaitingConfirmation(ctx, now.Add(-ReconcileMaxAge), now.Add(-ReconcileMinAge), ReconcileBatchSize)
	if err != nil {
		return ReconcileReport{}, NewFailedToFetchError("Failed to find unconfirmed payments", err)
	}

	report := ReconcileReport{Checked: len(payments)}
	for _, p := range payments {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		resp, err := s.gateway.VerifyByReference(ctx, p.TxRef)
		if err != nil {
			zap.S().Warnw("failed to verify payment by reference", "tx_ref", p.TxRef, "error", err)
			report.Errors++
			continue
		}

		switch {
		case resp.Status == flutterwave.StatusSuccess && resp.Data.Status == flutterwave.TransactionFailed:
			changed, err := s.pending.MarkFailed(ctx, p.TxRef)
			if err != nil {
				zap.S().Errorw("failed to mark payment failed", "tx_ref", p.TxRef, "error", err)
				report.Errors++
				continue
			}
			if changed {
				report.Failed++
			}
		case confirmsPayment(p, resp) == nil:
			out, err := s.FinalizeSuccessfulPayment(ctx, p.TxRef)
			if err != nil {
				zap.S().Errorw("failed to finalize reconciled payment", "tx_ref", p.TxRef, "error", err)
				report.Errors++
				continue
			}
			if !out.Duplicate {
				report.Finalized++
			}
		}
	}

	return report, nil
}
