package databases

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the payment flow relies on. It is
// safe to call on every start.
func EnsureIndexes(ctx context.Context, db DatabaseHelper) error {
	indexes := map[string][]mongo.IndexModel{
		pendingPaymentName: {
			{Keys: bson.D{{Key: "tx_ref", Value: 1}}, Options: options.Index().SetUnique(true).SetName(IndexPendingTxRef)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(IndexPendingEmail)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}, Options: options.Index().SetName("status_createdAt")},
		},
		registrantName: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(IndexRegistrantEmail)},
			{Keys: bson.D{{Key: "registrationId", Value: 1}}, Options: options.Index().SetUnique(true).SetName(IndexRegistrantRegistrationID)},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_desc")},
		},
	}
	for _, name := range []string{pendingPaymentName, registrantName} {
		if err := db.Collection(name).CreateIndexes(ctx, indexes[name]); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
