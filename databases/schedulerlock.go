package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockName = "schedulerlocks"

// SchedulerLockDatabase provides a lease so only one pod runs a cron job at a time
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, job, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, job, owner string) error
}

type schedulerLockDatabase struct {
	db  DatabaseHelper
	now func() time.Time
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db:  db,
		now: time.Now,
	}
}

// TryAcquireLock takes the job's lease when it is free, expired or already
// held by owner. Another live holder makes the upsert collide on _id, which
// is reported as not acquired.
func (s *schedulerLockDatabase) TryAcquireLock(ctx context.Context, job, owner string, ttl time.Duration) (bool, error) {
	now := s.now().UTC()
	filter := bson.M{
		"_id": job,
		"$or": bson.A{
			bson.M{"expiresAt": bson.M{"$lt": now}},
			bson.M{"owner": owner},
		},
	}
	update := bson.M{"$set": bson.M{"owner": owner, "expiresAt": now.Add(ttl), "acquiredAt": now}}
	_, err := s.db.Collection(schedulerLockName).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReleaseLock expires the lease if owner still holds it
func (s *schedulerLockDatabase) ReleaseLock(ctx context.Context, job, owner string) error {
	_, err := s.db.Collection(schedulerLockName).UpdateOne(ctx,
		bson.M{"_id": job, "owner": owner},
		bson.M{"$set": bson.M{"expiresAt": s.now().UTC()}},
	)
	return err
}
