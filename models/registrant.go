package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registrant holds the structure for the festivalStudents collection in MongoDB.
// A registrant only exists once its payment has been confirmed.
type Registrant struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Profile        `bson:",inline"`
	RegistrationID string    `json:"registrationId" bson:"registrationId"`
	TxRef          string    `json:"tx_ref" bson:"tx_ref"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// RegistrantSummary is the short form returned once a payment is verified
type RegistrantSummary struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	RegistrationID string `json:"registrationId"`
}

// Summary returns the short form of the registrant
func (r Registrant) Summary() RegistrantSummary {
	return RegistrantSummary{
		ID:             r.ID.Hex(),
		FullName:       r.FullName,
		Email:          r.Email,
		RegistrationID: r.RegistrationID,
	}
}
