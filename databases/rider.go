package databases

// go generate: mockery --name RiderDatabase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/rider-safety-api/apperrors"
	"github.com/linesmerrill/rider-safety-api/models"
)

// RiderCollection is the mongo collection riders are stored in
const RiderCollection = "riders"

// RiderDatabase contains the methods to use with the rider database
type RiderDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Rider, error)
	InsertOne(context.Context, *models.Rider) (primitive.ObjectID, error)
	PushInstance(ctx context.Context, riderID, instanceID primitive.ObjectID) error
	PushChallan(ctx context.Context, riderID, challanID primitive.ObjectID) error
}

type riderDatabase struct {
	db DatabaseHelper
}

// NewRiderDatabase initializes a new instance of rider database with the provided db connection
func NewRiderDatabase(db DatabaseHelper) RiderDatabase {
	return &riderDatabase{
		db: db,
	}
}

// FindOne returns a NotFoundError when no rider matches the filter
func (r *riderDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Rider, error) {
	rider := &models.Rider{}
	err := r.db.Collection(RiderCollection).FindOne(ctx, filter, opts...).Decode(&rider)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("User")
		}
		return nil, err
	}
	return rider, nil
}

func (r *riderDatabase) InsertOne(ctx context.Context, rider *models.Rider) (primitive.ObjectID, error) {
	if rider.ID.IsZero() {
		rider.ID = primitive.NewObjectID()
	}
	if rider.CreatedAt.IsZero() {
		rider.CreatedAt = time.Now().UTC()
	}
	if rider.Instances == nil {
		rider.Instances = []primitive.ObjectID{}
	}
	if rider.Challans == nil {
		rider.Challans = []primitive.ObjectID{}
	}
	_, err := r.db.Collection(RiderCollection).InsertOne(ctx, rider)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return rider.ID, nil
}

func (r *riderDatabase) PushInstance(ctx context.Context, riderID, instanceID primitive.ObjectID) error {
	return r.push(ctx, riderID, "instances", instanceID)
}

func (r *riderDatabase) PushChallan(ctx context.Context, riderID, challanID primitive.ObjectID) error {
	return r.push(ctx, riderID, "challans", challanID)
}

func (r *riderDatabase) push(ctx context.Context, riderID primitive.ObjectID, field string, ref primitive.ObjectID) error {
	res, err := r.db.Collection(RiderCollection).UpdateOne(ctx,
		bson.M{"_id": riderID},
		bson.M{"$push": bson.M{field: ref}},
	)
	if err != nil {
		return err
	}
	if res != nil && res.MatchedCount == 0 {
		return apperrors.NotFound("User")
	}
	return nil
}
