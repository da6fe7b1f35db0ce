package databases

// go generate: mockery --name RegistrantDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/festival-registration-api/models"
)

const registrantName = "festivalStudents"

// Unique index names on the festivalStudents collection
const (
	IndexRegistrantEmail          = "email_unique"
	IndexRegistrantRegistrationID = "registrationId_unique"
)

// RegistrantDatabase contains the methods to use with the registrant database
type RegistrantDatabase interface {
	FindByEmail(ctx context.Context, email string) (*models.Registrant, error)
	InsertOne(ctx context.Context, r models.Registrant) (primitive.ObjectID, error)
	FindAll(ctx context.Context) ([]models.Registrant, error)
}

type registrantDatabase struct {
	db DatabaseHelper
}

// NewRegistrantDatabase initializes a new instance of registrant database with the provided db connection
func NewRegistrantDatabase(db DatabaseHelper) RegistrantDatabase {
	return &registrantDatabase{
		db: db,
	}
}

func (c *registrantDatabase) FindByEmail(ctx context.Context, email string) (*models.Registrant, error) {
	r := &models.Registrant{}
	err := c.db.Collection(registrantName).FindOne(ctx, bson.M{"email": email}).Decode(r)
	if err != nil {
		return nil, translateError(err)
	}
	return r, nil
}

func (c *registrantDatabase) InsertOne(ctx context.Context, r models.Registrant) (primitive.ObjectID, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, err := c.db.Collection(registrantName).InsertOne(ctx, r); err != nil {
		return primitive.NilObjectID, translateError(err)
	}
	return r.ID, nil
}

// FindAll returns every registrant, newest first
func (c *registrantDatabase) FindAll(ctx context.Context) ([]models.Registrant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := c.db.Collection(registrantName).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	registrants := []models.Registrant{}
	if err := cursor.All(ctx, &registrants); err != nil {
		return nil, err
	}
	return registrants, nil
}
