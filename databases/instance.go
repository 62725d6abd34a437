package databases

// go generate: mockery --name InstanceDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/rider-safety-api/models"
)

const instanceName = "instances"

// InstanceDatabase contains the methods to use with the instance database
type InstanceDatabase interface {
	InsertOne(context.Context, *models.Instance) (primitive.ObjectID, error)
	FindByIDs(context.Context, []primitive.ObjectID) ([]models.Instance, error)
}

type instanceDatabase struct {
	db DatabaseHelper
}

// NewInstanceDatabase initializes a new instance of instance database with the provided db connection
func NewInstanceDatabase(db DatabaseHelper) InstanceDatabase {
	return &instanceDatabase{
		db: db,
	}
}

func (i *instanceDatabase) InsertOne(ctx context.Context, instance *models.Instance) (primitive.ObjectID, error) {
	if instance.ID.IsZero() {
		instance.ID = primitive.NewObjectID()
	}
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = time.Now().UTC()
	}
	_, err := i.db.Collection(instanceName).InsertOne(ctx, instance)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return instance.ID, nil
}

// FindByIDs resolves a rider's instance references, oldest first
func (i *instanceDatabase) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Instance, error) {
	instances := []models.Instance{}
	if len(ids) == 0 {
		return instances, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cr, err := i.db.Collection(instanceName).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&instances)
	if err != nil {
		return nil, err
	}
	return instances, nil
}
