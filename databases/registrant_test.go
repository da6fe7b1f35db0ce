package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/festival-registration-api/databases"
	"github.com/linesmerrill/festival-registration-api/databases/mocks"
	"github.com/linesmerrill/festival-registration-api/models"
)

func TestRegistrantDatabase_FindByEmail(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srMissing := &mocks.SingleResultHelper{}
	srFound := &mocks.SingleResultHelper{}

	srMissing.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	srFound.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Registrant)
		arg.Email = "ada@example.com"
		arg.RegistrationID = "EVT-123456"
	})
	collectionHelper.On("FindOne", context.Background(), bson.M{"email": "nobody@example.com"}).Return(srMissing)
	collectionHelper.On("FindOne", context.Background(), bson.M{"email": "ada@example.com"}).Return(srFound)
	dbHelper.On("Collection", "festivalStudents").Return(collectionHelper)

	registrantDB := databases.NewRegistrantDatabase(dbHelper)

	r, err := registrantDB.FindByEmail(context.Background(), "nobody@example.com")
	assert.Nil(t, r)
	assert.ErrorIs(t, err, databases.ErrNotFound)

	r, err = registrantDB.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "EVT-123456", r.RegistrationID)
}

func TestRegistrantDatabase_InsertOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	dupErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: test.festivalStudents index: email_unique dup key: { email: "ada@example.com" }`,
	}}}
	collectionHelper.On("InsertOne", context.Background(), mock.MatchedBy(func(r models.Registrant) bool {
		return r.Email == "ada@example.com"
	})).Return(nil, dupErr)
	collectionHelper.On("InsertOne", context.Background(), mock.MatchedBy(func(r models.Registrant) bool {
		return r.Email == "grace@example.com"
	})).Return("ok", nil)
	dbHelper.On("Collection", "festivalStudents").Return(collectionHelper)

	registrantDB := databases.NewRegistrantDatabase(dbHelper)

	ada := models.Registrant{Profile: models.Profile{Email: "ada@example.com"}}
	_, err := registrantDB.InsertOne(context.Background(), ada)
	assert.True(t, databases.IsDuplicateOn(err, databases.IndexRegistrantEmail))

	grace := models.Registrant{Profile: models.Profile{Email: "grace@example.com"}}
	id, err := registrantDB.InsertOne(context.Background(), grace)
	require.NoError(t, err)
	assert.False(t, id.IsZero())
}

func TestRegistrantDatabase_FindAll(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Registrant)
		*arg = []models.Registrant{{RegistrationID: "EVT-2"}, {RegistrationID: "EVT-1"}}
	})
	cursor.On("Close", mock.Anything).Return(nil)
	collectionHelper.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(cursor, nil)
	dbHelper.On("Collection", "festivalStudents").Return(collectionHelper)

	registrants, err := databases.NewRegistrantDatabase(dbHelper).FindAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "EVT-2", registrants[0].RegistrationID)
	assert.Len(t, registrants, 2)
}

func TestRegistrantDatabase_FindAllError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(nil, errors.New("mocked-error"))
	dbHelper.On("Collection", "festivalStudents").Return(collectionHelper)

	registrants, err := databases.NewRegistrantDatabase(dbHelper).FindAll(context.Background())

	assert.Empty(t, registrants)
	assert.EqualError(t, err, "mocked-error")
}
