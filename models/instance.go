package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Instance holds one recorded violation check: the sensor snapshot taken at
// detection time plus what the classifier and the rules concluded.
type Instance struct {
	ID                     primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User                   primitive.ObjectID `json:"user" bson:"user"`
	HelmetStatus           bool               `json:"helmetStatus" bson:"helmetStatus"`
	Latitude               float64            `json:"latitude" bson:"latitude"`
	Longitude              float64            `json:"longitude" bson:"longitude"`
	AccelerometerX         float64            `json:"accelerometerX" bson:"accelerometerX"`
	AccelerometerY         float64            `json:"accelerometerY" bson:"accelerometerY"`
	AccelerometerZ         float64            `json:"accelerometerZ" bson:"accelerometerZ"`
	GyroX                  float64            `json:"gyroX" bson:"gyroX"`
	GyroY                  float64            `json:"gyroY" bson:"gyroY"`
	GyroZ                  float64            `json:"gyroZ" bson:"gyroZ"`
	Speed                  float64            `json:"speed" bson:"speed"`
	Speeding               bool               `json:"speeding" bson:"speeding"`
	TrafficViolationStatus bool               `json:"trafficViolationStatus" bson:"trafficViolationStatus"`
	ImageURL               string             `json:"imageUrl" bson:"imageUrl"`
	Labels                 []string           `json:"labels" bson:"labels"`
	CreatedAt              time.Time          `json:"createdAt" bson:"createdAt"`
}

// DetectionResponse is returned by the detect labels endpoint
type DetectionResponse struct {
	Message  string   `json:"message"`
	Labels   []string `json:"labels"`
	ImageURL string   `json:"imageUrl"`
}

// InstancesResponse lists a rider's violation instances
type InstancesResponse struct {
	Status    string     `json:"status"`
	Instances []Instance `json:"instances"`
}
