package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/festival-registration-api/config"
	"github.com/linesmerrill/festival-registration-api/databases"
	"github.com/linesmerrill/festival-registration-api/databases/mocks"
	"github.com/linesmerrill/festival-registration-api/models"
)

func TestNewPendingPaymentDatabase(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	pendingDB := databases.NewPendingPaymentDatabase(db)

	assert.NotEmpty(t, pendingDB)
}

func TestPendingPaymentDatabase_FindByTxRef(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelperErr := &mocks.SingleResultHelper{}
	srHelperCorrect := &mocks.SingleResultHelper{}

	srHelperErr.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	srHelperCorrect.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.PendingPayment)
		arg.TxRef = "tx_1-1"
		arg.Status = models.PaymentStatusPending
	})

	collectionHelper.On("FindOne", context.Background(), bson.M{"tx_ref": "tx_missing"}).Return(srHelperErr)
	collectionHelper.On("FindOne", context.Background(), bson.M{"tx_ref": "tx_1-1"}).Return(srHelperCorrect)
	dbHelper.On("Collection", "pendingPayments").Return(collectionHelper)

	pendingDB := databases.NewPendingPaymentDatabase(dbHelper)

	p, err := pendingDB.FindByTxRef(context.Background(), "tx_missing")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, databases.ErrNotFound)

	p, err = pendingDB.FindByTxRef(context.Background(), "tx_1-1")
	require.NoError(t, err)
	assert.Equal(t, "tx_1-1", p.TxRef)
	assert.Equal(t, models.PaymentStatusPending, p.Status)
}

func TestPendingPaymentDatabase_InsertOneDuplicateEmail(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	dupErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: test.pendingPayments index: pending_email_unique dup key: { email: "a@b.com" }`,
	}}}
	collectionHelper.On("InsertOne", context.Background(), mock.AnythingOfType("models.PendingPayment")).Return(nil, dupErr)
	dbHelper.On("Collection", "pendingPayments").Return(collectionHelper)

	pendingDB := databases.NewPendingPaymentDatabase(dbHelper)
	err := pendingDB.InsertOne(context.Background(), models.PendingPayment{TxRef: "tx_1-1"})

	assert.ErrorIs(t, err, databases.ErrDuplicate)
	assert.True(t, databases.IsDuplicateOn(err, databases.IndexPendingEmail))
	assert.False(t, databases.IsDuplicateOn(err, databases.IndexPendingTxRef))
}

func TestPendingPaymentDatabase_InsertOneAssignsID(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	var inserted models.PendingPayment
	collectionHelper.On("InsertOne", context.Background(), mock.AnythingOfType("models.PendingPayment")).
		Return(primitive.NewObjectID(), nil).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(models.PendingPayment)
		})
	dbHelper.On("Collection", "pendingPayments").Return(collectionHelper)

	err := databases.NewPendingPaymentDatabase(dbHelper).InsertOne(context.Background(), models.PendingPayment{TxRef: "tx_1-1"})

	require.NoError(t, err)
	assert.False(t, inserted.ID.IsZero())
}

func TestPendingPaymentDatabase_MarkSuccessful(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srWon := &mocks.SingleResultHelper{}
	srLost := &mocks.SingleResultHelper{}
	srBroken := &mocks.SingleResultHelper{}

	srWon.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.PendingPayment)
		arg.TxRef = "tx_won"
		arg.Status = models.PaymentStatusSuccessful
		arg.UsedForRegistration = true
	})
	srLost.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	srBroken.On("Decode", mock.Anything).Return(errors.New("connection reset"))

	winFilter := bson.M{"tx_ref": "tx_won", "status": bson.M{"$ne": models.PaymentStatusSuccessful}}
	lostFilter := bson.M{"tx_ref": "tx_lost", "status": bson.M{"$ne": models.PaymentStatusSuccessful}}
	brokenFilter := bson.M{"tx_ref": "tx_broken", "status": bson.M{"$ne": models.PaymentStatusSuccessful}}
	collectionHelper.On("FindOneAndUpdate", mock.Anything, winFilter, mock.Anything, mock.Anything).Return(srWon)
	collectionHelper.On("FindOneAndUpdate", mock.Anything, lostFilter, mock.Anything, mock.Anything).Return(srLost)
	collectionHelper.On("FindOneAndUpdate", mock.Anything, brokenFilter, mock.Anything, mock.Anything).Return(srBroken)
	dbHelper.On("Collection", "pendingPayments").Return(collectionHelper)

	pendingDB := databases.NewPendingPaymentDatabase(dbHelper)

	p, applied, err := pendingDB.MarkSuccessful(context.Background(), "tx_won")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, p.UsedForRegistration)

	p, applied, err = pendingDB.MarkSuccessful(context.Background(), "tx_lost")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Nil(t, p)

	_, applied, err = pendingDB.MarkSuccessful(context.Background(), "tx_broken")
	assert.EqualError(t, err, "connection reset")
	assert.False(t, applied)
}

func TestPendingPaymentDatabase_SetAmountOnPaidAttempt(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	sr := &mocks.SingleResultHelper{}

	sr.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	collectionHelper.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sr)
	dbHelper.On("Collection", "pendingPayments").Return(collectionHelper)

	p, err := databases.NewPendingPaymentDatabase(dbHelper).SetAmount(context.Background(), "tx_paid", 5000)

	assert.Nil(t, p)
	assert.ErrorIs(t, err, databases.ErrNotFound)
}

func TestPendingPaymentDatabase_MarkFailed(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("UpdateOne", mock.Anything,
		bson.M{"tx_ref": "tx_1-1", "status": models.PaymentStatusPending}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	collectionHelper.On("UpdateOne", mock.Anything,
		bson.M{"tx_ref": "tx_2-2", "status": models.PaymentStatusPending}, mock.Anything).
		Return(&mongo.UpdateResult{}, nil)
	dbHelper.On("Collection", "pendingPayments").Return(collectionHelper)

	pendingDB := databases.NewPendingPaymentDatabase(dbHelper)

	changed, err := pendingDB.MarkFailed(context.Background(), "tx_1-1")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = pendingDB.MarkFailed(context.Background(), "tx_2-2")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestPendingPaymentDatabase_FindAwaitingConfirmation(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.PendingPayment)
		*arg = []models.PendingPayment{{TxRef: "tx_1-1", Amount: 5000}}
	})
	cursor.On("Close", mock.Anything).Return(nil)
	collectionHelper.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	dbHelper.On("Collection", "pendingPayments").Return(collectionHelper)

	now := time.Now()
	payments, err := databases.NewPendingPaymentDatabase(dbHelper).
		FindAwaitingConfirmation(context.Background(), now.Add(-48*time.Hour), now.Add(-15*time.Minute), 100)

	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "tx_1-1", payments[0].TxRef)
	cursor.AssertCalled(t, "Close", mock.Anything)
}

func TestPendingPaymentDatabase_DeleteOneKeepsPaidAttempts(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	id := primitive.NewObjectID()

	collectionHelper.On("DeleteOne", mock.Anything, bson.M{
		"_id":    id,
		"status": bson.M{"$ne": models.PaymentStatusSuccessful},
	}).Return(int64(1), nil)
	dbHelper.On("Collection", "pendingPayments").Return(collectionHelper)

	err := databases.NewPendingPaymentDatabase(dbHelper).DeleteOne(context.Background(), id)

	assert.NoError(t, err)
	collectionHelper.AssertExpectations(t)
}

func TestPendingPaymentDatabase_RevertToPending(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("UpdateOne", mock.Anything,
		bson.M{"tx_ref": "tx_1-1", "status": models.PaymentStatusSuccessful},
		mock.MatchedBy(func(update bson.M) bool {
			set := update["$set"].(bson.M)
			return set["status"] == models.PaymentStatusPending && set["usedForRegistration"] == false
		})).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	dbHelper.On("Collection", "pendingPayments").Return(collectionHelper)

	err := databases.NewPendingPaymentDatabase(dbHelper).RevertToPending(context.Background(), "tx_1-1")

	assert.NoError(t, err)
	collectionHelper.AssertExpectations(t)
}
