package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingPayment status values
const (
	PaymentStatusPending    = "pending"
	PaymentStatusSuccessful = "successful"
	PaymentStatusFailed     = "failed"
)

// PendingPayment holds the structure for the pendingPayments collection in MongoDB.
// One document exists per payment attempt, keyed by TxRef.
type PendingPayment struct {
	ID                  primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TxRef               string             `json:"tx_ref" bson:"tx_ref"`
	Profile             `bson:",inline"`
	Amount              int64     `json:"amount,omitempty" bson:"amount,omitempty"`
	Status              string    `json:"status" bson:"status"`
	UsedForRegistration bool      `json:"usedForRegistration" bson:"usedForRegistration"`
	CreatedAt           time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" bson:"updatedAt"`
}

// StaleAfter reports whether the record was created more than window before now
func (p PendingPayment) StaleAfter(window time.Duration, now time.Time) bool {
	return now.Sub(p.CreatedAt) > window
}
