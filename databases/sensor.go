package databases

// go generate: mockery --name SensorDatabase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/rider-safety-api/models"
)

const sensorName = "sensordata"

// SensorDatabase contains the methods to use with the sensor data database
type SensorDatabase interface {
	Record(ctx context.Context, riderID primitive.ObjectID, sample models.SensorSample) (primitive.ObjectID, error)
	Latest(ctx context.Context, riderID primitive.ObjectID) (models.SensorSample, error)
	Recent(ctx context.Context, riderID primitive.ObjectID, limit int64) ([]models.SensorSample, error)
}

type sensorDatabase struct {
	db  DatabaseHelper
	now func() time.Time
}

// NewSensorDatabase initializes a new instance of sensor database with the provided db connection
func NewSensorDatabase(db DatabaseHelper) SensorDatabase {
	return &sensorDatabase{
		db:  db,
		now: time.Now,
	}
}

// Record stores a new sample for the rider stamped with the current time
func (s *sensorDatabase) Record(ctx context.Context, riderID primitive.ObjectID, sample models.SensorSample) (primitive.ObjectID, error) {
	sample.ID = primitive.NewObjectID()
	sample.UserID = riderID
	sample.Timestamp = s.now().UTC()
	_, err := s.db.Collection(sensorName).InsertOne(ctx, sample)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return sample.ID, nil
}

// Latest returns the newest sample for the rider, or the zero sample when
// the rider has never reported any telemetry.
func (s *sensorDatabase) Latest(ctx context.Context, riderID primitive.ObjectID) (models.SensorSample, error) {
	sample := models.SensorSample{}
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	err := s.db.Collection(sensorName).FindOne(ctx, bson.M{"userId": riderID}, opts).Decode(&sample)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.SensorSample{}, nil
		}
		return models.SensorSample{}, err
	}
	return sample, nil
}

// Recent returns up to limit samples for the rider, newest first
func (s *sensorDatabase) Recent(ctx context.Context, riderID primitive.ObjectID, limit int64) ([]models.SensorSample, error) {
	var samples []models.SensorSample
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cr, err := s.db.Collection(sensorName).Find(ctx, bson.M{"userId": riderID}, opts)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&samples)
	if err != nil {
		return nil, err
	}
	return samples, nil
}
