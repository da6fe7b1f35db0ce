package models

import "time"

// SchedulerLock is a lease on a background job, stored in the schedulerLocks collection
type SchedulerLock struct {
	Name      string    `json:"name" bson:"_id"`
	Owner     string    `json:"owner" bson:"owner"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}
