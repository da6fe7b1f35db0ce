package databases

// go generate: mockery --name PendingPaymentDatabase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/festival-registration-api/models"
)

const pendingPaymentName = "pendingPayments"

// Unique index names on the pendingPayments collection
const (
	IndexPendingTxRef = "tx_ref_unique"
	IndexPendingEmail = "pending_email_unique"
)

// PendingPaymentDatabase contains the methods to use with the pendingPayments database
type PendingPaymentDatabase interface {
	FindByTxRef(ctx context.Context, txRef string) (*models.PendingPayment, error)
	FindByEmail(ctx context.Context, email string) (*models.PendingPayment, error)
	InsertOne(ctx context.Context, p models.PendingPayment) error
	DeleteOne(ctx context.Context, id primitive.ObjectID) error
	SetAmount(ctx context.Context, txRef string, amount int64) (*models.PendingPayment, error)
	MarkSuccessful(ctx context.Context, txRef string) (*models.PendingPayment, bool, error)
	RevertToPending(ctx context.Context, txRef string) error
	MarkFailed(ctx context.Context, txRef string) (bool, error)
	FindAwaitingConfirmation(ctx context.Context, createdAfter, createdBefore time.Time, limit int64) ([]models.PendingPayment, error)
}

type pendingPaymentDatabase struct {
	db  DatabaseHelper
	now func() time.Time
}

// NewPendingPaymentDatabase initializes a new instance of pendingPayments database with the provided db connection
func NewPendingPaymentDatabase(db DatabaseHelper) PendingPaymentDatabase {
	return &pendingPaymentDatabase{
		db:  db,
		now: time.Now,
	}
}

func (c *pendingPaymentDatabase) findOne(ctx context.Context, filter interface{}) (*models.PendingPayment, error) {
	p := &models.PendingPayment{}
	err := c.db.Collection(pendingPaymentName).FindOne(ctx, filter).Decode(p)
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

func (c *pendingPaymentDatabase) FindByTxRef(ctx context.Context, txRef string) (*models.PendingPayment, error) {
	return c.findOne(ctx, bson.M{"tx_ref": txRef})
}

func (c *pendingPaymentDatabase) FindByEmail(ctx context.Context, email string) (*models.PendingPayment, error) {
	return c.findOne(ctx, bson.M{"email": email})
}

func (c *pendingPaymentDatabase) InsertOne(ctx context.Context, p models.PendingPayment) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := c.db.Collection(pendingPaymentName).InsertOne(ctx, p)
	return translateError(err)
}

// DeleteOne removes a superseded attempt. Paid attempts are never deleted.
func (c *pendingPaymentDatabase) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	_, err := c.db.Collection(pendingPaymentName).DeleteOne(ctx, bson.M{
		"_id":    id,
		"status": bson.M{"$ne": models.PaymentStatusSuccessful},
	})
	return translateError(err)
}

// SetAmount records the charged amount on an attempt that has not been paid yet.
// ErrNotFound means no unpaid attempt exists for txRef.
func (c *pendingPaymentDatabase) SetAmount(ctx context.Context, txRef string, amount int64) (*models.PendingPayment, error) {
	p := &models.PendingPayment{}
	err := c.db.Collection(pendingPaymentName).FindOneAndUpdate(ctx,
		bson.M{"tx_ref": txRef, "status": bson.M{"$ne": models.PaymentStatusSuccessful}},
		bson.M{"$set": bson.M{"amount": amount, "updatedAt": c.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(p)
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

// MarkSuccessful atomically moves an unpaid attempt to successful. The bool is
// false when the attempt was already successful or no longer exists.
func (c *pendingPaymentDatabase) MarkSuccessful(ctx context.Context, txRef string) (*models.PendingPayment, bool, error) {
	p := &models.PendingPayment{}
	err := c.db.Collection(pendingPaymentName).FindOneAndUpdate(ctx,
		bson.M{"tx_ref": txRef, "status": bson.M{"$ne": models.PaymentStatusSuccessful}},
		bson.M{"$set": bson.M{
			"status":              models.PaymentStatusSuccessful,
			"usedForRegistration": true,
			"updatedAt":           c.now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(p)
	if err != nil {
		err = translateError(err)
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return p, true, nil
}

// RevertToPending undoes MarkSuccessful when the registrant could not be
// created, so the next confirmation attempt can finish the job
func (c *pendingPaymentDatabase) RevertToPending(ctx context.Context, txRef string) error {
	_, err := c.db.Collection(pendingPaymentName).UpdateOne(ctx,
		bson.M{"tx_ref": txRef, "status": models.PaymentStatusSuccessful},
		bson.M{"$set": bson.M{
			"status":              models.PaymentStatusPending,
			"usedForRegistration": false,
			"updatedAt":           c.now(),
		}},
	)
	return translateError(err)
}

// MarkFailed moves a pending attempt to failed
func (c *pendingPaymentDatabase) MarkFailed(ctx context.Context, txRef string) (bool, error) {
	res, err := c.db.Collection(pendingPaymentName).UpdateOne(ctx,
		bson.M{"tx_ref": txRef, "status": models.PaymentStatusPending},
		bson.M{"$set": bson.M{"status": models.PaymentStatusFailed, "updatedAt": c.now()}},
	)
	if err != nil {
		return false, translateError(err)
	}
	return res.ModifiedCount == 1, nil
}

// FindAwaitingConfirmation returns pending attempts that had a charge initiated
// and were created inside the window, oldest first
func (c *pendingPaymentDatabase) FindAwaitingConfirmation(ctx context.Context, createdAfter, createdBefore time.Time, limit int64) ([]models.PendingPayment, error) {
	filter := bson.M{
		"status": models.PaymentStatusPending,
		"amount": bson.M{"$gt": 0},
		"createdAt": bson.M{
			"$gte": createdAfter,
			"$lte": createdBefore,
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(limit)

	cursor, err := c.db.Collection(pendingPaymentName).Find(ctx, filter, opts)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	var payments []models.PendingPayment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
