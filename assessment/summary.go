package assessment

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/linesmerrill/rider-safety-api/models"
)

// SummaryWindow is how many recent samples a sensor summary covers
const SummaryWindow = 500

// Summarize computes speed statistics over samples, newest first
func Summarize(samples []models.SensorSample) models.SensorSummary {
	summary := models.SensorSummary{Count: len(samples)}
	if len(samples) == 0 {
		return summary
	}

	speeds := make([]float64, len(samples))
	for i, s := range samples {
		speeds[i] = s.Speed
		if s.Speed > SpeedLimit {
			summary.SpeedingSamples++
		}
	}

	summary.Latest = samples[0]
	summary.MaxSpeed = floats.Max(speeds)
	summary.MeanSpeed = stat.Mean(speeds, nil)
	if len(speeds) > 1 {
		summary.StdDevSpeed = stat.StdDev(speeds, nil)
	}
	return summary
}

// SensorSummary summarizes the rider's most recent telemetry
func (p *Pipeline) SensorSummary(ctx context.Context, uniqueKey string) (models.SensorSummary, error) {
	rider, err := p.FindRider(ctx, uniqueKey)
	if err != nil {
		return models.SensorSummary{}, err
	}
	samples, err := p.Sensors.Recent(ctx, rider.ID, SummaryWindow)
	if err != nil {
		return models.SensorSummary{}, fmt.Errorf("failed to load sensor data: %w", err)
	}
	return Summarize(samples), nil
}
