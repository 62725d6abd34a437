package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/apperrors"
	"github.com/linesmerrill/rider-safety-api/classifier"
	"github.com/linesmerrill/rider-safety-api/databases"
	"github.com/linesmerrill/rider-safety-api/events"
	"github.com/linesmerrill/rider-safety-api/models"
)

// ImageClassifier decides whether a photo shows a helmet
type ImageClassifier interface {
	Classify(ctx context.Context, in classifier.ImageInput) (classifier.Classification, error)
}

// ChallanNotifier tells a rider about a newly issued challan
type ChallanNotifier interface {
	ChallanIssued(ctx context.Context, rider models.Rider, challan models.Challan, reasons []string) error
}

// Pipeline runs violation detection for riders
type Pipeline struct {
	Riders     databases.RiderDatabase
	Sensors    databases.SensorDatabase
	Instances  databases.InstanceDatabase
	Challans   databases.ChallanDatabase
	Classifier ImageClassifier
	Publisher  events.Publisher
	Notifier   ChallanNotifier

	now func() time.Time
}

// Result is what DetectViolation reports back to the caller
type Result struct {
	Message  string
	Labels   []string
	ImageURL string
	Verdict  Verdict
	Instance models.Instance
	Challan  *models.Challan
}

// Response renders the result in the shape returned over http
func (r *Result) Response() models.DetectionResponse {
	return models.DetectionResponse{
		Message:  r.Message,
		Labels:   r.Labels,
		ImageURL: r.ImageURL,
	}
}

// NewPipeline wires a Pipeline. A nil publisher or notifier disables that side effect.
func NewPipeline(rdb databases.RiderDatabase, sdb databases.SensorDatabase, idb databases.InstanceDatabase,
	cdb databases.ChallanDatabase, c ImageClassifier, pub events.Publisher, n ChallanNotifier) *Pipeline {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Pipeline{
		Riders:     rdb,
		Sensors:    sdb,
		Instances:  idb,
		Challans:   cdb,
		Classifier: c,
		Publisher:  pub,
		Notifier:   n,
		now:        time.Now,
	}
}

// FindRider resolves a rider by unique key
func (p *Pipeline) FindRider(ctx context.Context, uniqueKey string) (*models.Rider, error) {
	if uniqueKey == "" {
		return nil, apperrors.NotFound("User")
	}
	return p.Riders.FindOne(ctx, bson.M{"uniqueKey": uniqueKey})
}

// DetectViolation classifies image for the rider, records an instance and,
// when a rule was broken, a challan. Writes already made are kept if a later
// step fails.
func (p *Pipeline) DetectViolation(ctx context.Context, uniqueKey string, image []byte) (*Result, error) {
	rider, err := p.FindRider(ctx, uniqueKey)
	if err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, apperrors.Validation("Image is required.")
	}

	sample, err := p.Sensors.Latest(ctx, rider.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest sensor data: %w", err)
	}

	cls, err := p.Classifier.Classify(ctx, classifier.ImageInput{
		RiderName: rider.Name,
		RiderID:   rider.ID.Hex(),
		Data:      image,
	})
	if err != nil {
		return nil, err
	}

	verdict := Evaluate(cls.HelmetDetected, sample.Speed)

	instance := models.Instance{
		User:                   rider.ID,
		HelmetStatus:           verdict.HelmetDetected,
		Latitude:               sample.Latitude,
		Longitude:              sample.Longitude,
		AccelerometerX:         sample.AccelerometerX,
		AccelerometerY:         sample.AccelerometerY,
		AccelerometerZ:         sample.AccelerometerZ,
		GyroX:                  sample.GyroX,
		GyroY:                  sample.GyroY,
		GyroZ:                  sample.GyroZ,
		Speed:                  sample.Speed,
		Speeding:               verdict.Speeding,
		TrafficViolationStatus: verdict.Violation,
		ImageURL:               cls.ImageURL,
		Labels:                 cls.Labels,
		CreatedAt:              p.clock().UTC(),
	}
	instanceID, err := p.Instances.InsertOne(ctx, &instance)
	if err != nil {
		return nil, fmt.Errorf("failed to save instance: %w", err)
	}
	instance.ID = instanceID
	if err := p.Riders.PushInstance(ctx, rider.ID, instanceID); err != nil {
		return nil, fmt.Errorf("failed to link instance %s: %w", instanceID.Hex(), err)
	}

	var challan *models.Challan
	if verdict.Violation {
		now := p.clock().UTC()
		challan = &models.Challan{
			User:          rider.ID,
			Instance:      instanceID,
			Date:          now,
			Amount:        verdict.Amount,
			PaymentStatus: models.PaymentPending,
			PaymentMethod: models.PaymentUPI,
			CreatedAt:     now,
		}
		challanID, err := p.Challans.InsertOne(ctx, challan)
		if err != nil {
			return nil, fmt.Errorf("failed to save challan: %w", err)
		}
		challan.ID = challanID
		if err := p.Riders.PushChallan(ctx, rider.ID, challanID); err != nil {
			return nil, fmt.Errorf("failed to link challan %s: %w", challanID.Hex(), err)
		}
	}

	p.announce(ctx, rider, instance, challan, verdict)

	return &Result{
		Message:  HelmetMessage(verdict.HelmetDetected),
		Labels:   cls.Labels,
		ImageURL: cls.ImageURL,
		Verdict:  verdict,
		Instance: instance,
		Challan:  challan,
	}, nil
}

// announce publishes the outcome and emails the rider. Failures are logged and dropped.
func (p *Pipeline) announce(ctx context.Context, rider *models.Rider, instance models.Instance, challan *models.Challan, verdict Verdict) {
	event := events.ViolationEvent{
		EventID:        uuid.NewString(),
		Type:           events.ViolationDetected,
		RiderID:        rider.ID.Hex(),
		UniqueKey:      rider.UniqueKey,
		InstanceID:     instance.ID.Hex(),
		Amount:         verdict.Amount,
		HelmetDetected: verdict.HelmetDetected,
		Speeding:       verdict.Speeding,
		Violation:      verdict.Violation,
		OccurredAt:     instance.CreatedAt,
	}
	if challan != nil {
		event.ChallanID = challan.ID.Hex()
	}
	if p.Publisher != nil {
		if err := p.Publisher.PublishViolation(ctx, event); err != nil {
			zap.S().Warnw("failed to publish violation event", "error", err, "instance", event.InstanceID)
		}
	}

	if challan != nil && p.Notifier != nil {
		if err := p.Notifier.ChallanIssued(ctx, *rider, *challan, verdict.Reasons); err != nil {
			zap.S().Warnw("failed to email challan", "error", err, "challan", event.ChallanID)
		}
	}
}

// RecordSensorData stores one telemetry sample for the rider. Every numeric
// field must be present.
func (p *Pipeline) RecordSensorData(ctx context.Context, uniqueKey string, req models.SensorSampleRequest) (primitive.ObjectID, error) {
	rider, err := p.FindRider(ctx, uniqueKey)
	if err != nil {
		return primitive.NilObjectID, err
	}
	sample, err := SampleFromRequest(req)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return p.Sensors.Record(ctx, rider.ID, sample)
}

// SampleFromRequest copies a request into a sample, rejecting missing fields
func SampleFromRequest(req models.SensorSampleRequest) (models.SensorSample, error) {
	fields := []struct {
		name string
		v    *float64
	}{
		{"latitude", req.Latitude},
		{"longitude", req.Longitude},
		{"accelerometerX", req.AccelerometerX},
		{"accelerometerY", req.AccelerometerY},
		{"accelerometerZ", req.AccelerometerZ},
		{"gyroX", req.GyroX},
		{"gyroY", req.GyroY},
		{"gyroZ", req.GyroZ},
		{"speed", req.Speed},
	}
	for _, f := range fields {
		if f.v == nil {
			return models.SensorSample{}, apperrors.Validation("%s is required", f.name)
		}
	}
	return models.SensorSample{
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		AccelerometerX: *req.AccelerometerX,
		AccelerometerY: *req.AccelerometerY,
		AccelerometerZ: *req.AccelerometerZ,
		GyroX:          *req.GyroX,
		GyroY:          *req.GyroY,
		GyroZ:          *req.GyroZ,
		Speed:          *req.Speed,
	}, nil
}

func (p *Pipeline) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}
