package flutterwave

import (
	"crypto/sha256"
	"crypto/subtle"
)

// SignatureHeader carries the shared secret on webhook deliveries
const SignatureHeader = "verif-hash"

// EventChargeCompleted is sent once a charge reaches a final state
const EventChargeCompleted = "charge.completed"

// WebhookEvent is the body of a webhook delivery
type WebhookEvent struct {
	Event string      `json:"event"`
	Data  Transaction `json:"data"`
}

// ChargeSucceeded reports whether the event confirms a successful charge
func (e WebhookEvent) ChargeSucceeded() bool {
	return e.Event == EventChargeCompleted && e.Data.Status == TransactionSuccessful
}

// ValidSignature compares the delivered hash with the configured secret. Both
// sides are digested first so the compare runs over equal lengths.
func ValidSignature(header, secret string) bool {
	if header == "" || secret == "" {
		return false
	}
	got := sha256.Sum256([]byte(header))
	want := sha256.Sum256([]byte(secret))
	return subtle.ConstantTimeCompare(got[:], want[:]) == 1
}
