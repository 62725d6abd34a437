package databases

// go generate: mockery --name ChallanDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/rider-safety-api/models"
)

const challanName = "challans"

// ChallanDatabase contains the methods to use with the challan database
type ChallanDatabase interface {
	InsertOne(context.Context, *models.Challan) (primitive.ObjectID, error)
	FindByIDs(context.Context, []primitive.ObjectID) ([]models.Challan, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Challan, error)
}

type challanDatabase struct {
	db DatabaseHelper
}

// NewChallanDatabase initializes a new instance of challan database with the provided db connection
func NewChallanDatabase(db DatabaseHelper) ChallanDatabase {
	return &challanDatabase{
		db: db,
	}
}

// InsertOne fills in the schema defaults (Pending, UPI, issue date) before saving
func (c *challanDatabase) InsertOne(ctx context.Context, challan *models.Challan) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	if challan.ID.IsZero() {
		challan.ID = primitive.NewObjectID()
	}
	if challan.PaymentStatus == "" {
		challan.PaymentStatus = models.PaymentPending
	}
	if challan.PaymentMethod == "" {
		challan.PaymentMethod = models.PaymentUPI
	}
	if challan.Date.IsZero() {
		challan.Date = now
	}
	if challan.CreatedAt.IsZero() {
		challan.CreatedAt = now
	}
	_, err := c.db.Collection(challanName).InsertOne(ctx, challan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return challan.ID, nil
}

// FindByIDs resolves a rider's challan references, oldest first
func (c *challanDatabase) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Challan, error) {
	challans := []models.Challan{}
	if len(ids) == 0 {
		return challans, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cr, err := c.db.Collection(challanName).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&challans)
	if err != nil {
		return nil, err
	}
	return challans, nil
}

// FindPendingBefore returns unpaid challans issued before cutoff
func (c *challanDatabase) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Challan, error) {
	var challans []models.Challan
	filter := bson.M{
		"paymentStatus": models.PaymentPending,
		"date":          bson.M{"$lt": primitive.NewDateTimeFromTime(cutoff)},
	}
	cr, err := c.db.Collection(challanName).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "user", Value: 1}}))
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&challans)
	if err != nil {
		return nil, err
	}
	return challans, nil
}
