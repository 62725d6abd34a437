package api

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// routeSampleSize bounds how many recent durations are kept per route
const routeSampleSize = 200

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	AvgTime     time.Duration `json:"avgTime"`
	MaxTime     time.Duration `json:"maxTime"`
	P95Time     time.Duration `json:"p95Time"`
	LastRequest time.Time     `json:"lastRequest"`

	totalTime time.Duration
	recent    []float64
}

// MetricsCollector keeps per-route request counts and timings in memory
type MetricsCollector struct {
	mu     sync.RWMutex
	routes map[string]*RouteMetrics
}

// NewMetricsCollector returns an empty collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{routes: make(map[string]*RouteMetrics)}
}

// Record adds one finished request
func (mc *MetricsCollector) Record(method, path string, status int, d time.Duration, at time.Time) {
	if mc == nil {
		return
	}
	key := method + " " + path

	mc.mu.Lock()
	defer mc.mu.Unlock()

	m, ok := mc.routes[key]
	if !ok {
		m = &RouteMetrics{Method: method, Path: path}
		mc.routes[key] = m
	}
	m.Count++
	if status >= 400 {
		m.ErrorCount++
	}
	m.totalTime += d
	m.AvgTime = m.totalTime / time.Duration(m.Count)
	if d > m.MaxTime {
		m.MaxTime = d
	}
	m.LastRequest = at

	m.recent = append(m.recent, float64(d))
	if len(m.recent) > routeSampleSize {
		m.recent = m.recent[len(m.recent)-routeSampleSize:]
	}
	sorted := append([]float64(nil), m.recent...)
	sort.Float64s(sorted)
	m.P95Time = time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil))
}

// Routes returns a snapshot of every route, slowest average first
func (mc *MetricsCollector) Routes() []RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	out := make([]RouteMetrics, 0, len(mc.routes))
	for _, m := range mc.routes {
		snapshot := *m
		snapshot.recent = nil
		out = append(out, snapshot)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgTime == out[j].AvgTime {
			return out[i].Method+out[i].Path < out[j].Method+out[j].Path
		}
		return out[i].AvgTime > out[j].AvgTime
	})
	return out
}
