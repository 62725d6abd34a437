package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SensorSample holds one telemetry reading from a rider's device
type SensorSample struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	Latitude       float64            `json:"latitude" bson:"latitude"`
	Longitude      float64            `json:"longitude" bson:"longitude"`
	AccelerometerX float64            `json:"accelerometerX" bson:"accelerometerX"`
	AccelerometerY float64            `json:"accelerometerY" bson:"accelerometerY"`
	AccelerometerZ float64            `json:"accelerometerZ" bson:"accelerometerZ"`
	GyroX          float64            `json:"gyroX" bson:"gyroX"`
	GyroY          float64            `json:"gyroY" bson:"gyroY"`
	GyroZ          float64            `json:"gyroZ" bson:"gyroZ"`
	Speed          float64            `json:"speed" bson:"speed"`
	Timestamp      time.Time          `json:"timestamp" bson:"timestamp"`
}

// SensorSampleRequest is the body accepted by the sensor data endpoint.
// Pointers let a missing field be told apart from a zero reading.
type SensorSampleRequest struct {
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	AccelerometerX *float64 `json:"accelerometerX"`
	AccelerometerY *float64 `json:"accelerometerY"`
	AccelerometerZ *float64 `json:"accelerometerZ"`
	GyroX          *float64 `json:"gyroX"`
	GyroY          *float64 `json:"gyroY"`
	GyroZ          *float64 `json:"gyroZ"`
	Speed          *float64 `json:"speed"`
}

// SensorSummary describes a rider's recent speed profile
type SensorSummary struct {
	Count           int          `json:"count"`
	MeanSpeed       float64      `json:"meanSpeed"`
	MaxSpeed        float64      `json:"maxSpeed"`
	StdDevSpeed     float64      `json:"stdDevSpeed"`
	SpeedingSamples int          `json:"speedingSamples"`
	Latest          SensorSample `json:"latest"`
}
