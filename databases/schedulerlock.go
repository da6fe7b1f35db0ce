package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockName = "schedulerLocks"

// SchedulerLockDatabase hands out short leases so a job runs on one instance at a time
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, owner string) error
}

type schedulerLockDatabase struct {
	db  DatabaseHelper
	now func() time.Time
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{db: db, now: time.Now}
}

// TryAcquireLock takes the lease when it is free, expired or already ours. A
// live lease held by someone else makes the upsert collide on _id.
func (c *schedulerLockDatabase) TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	now := c.now()
	_, err := c.db.Collection(schedulerLockName).UpdateOne(ctx,
		bson.M{
			"_id": name,
			"$or": bson.A{
				bson.M{"expiresAt": bson.M{"$lt": now}},
				bson.M{"owner": owner},
			},
		},
		bson.M{"$set": bson.M{"owner": owner, "expiresAt": now.Add(ttl)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		err = translateError(err)
		if errors.Is(err, ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *schedulerLockDatabase) ReleaseLock(ctx context.Context, name, owner string) error {
	_, err := c.db.Collection(schedulerLockName).DeleteOne(ctx, bson.M{"_id": name, "owner": owner})
	return translateError(err)
}
