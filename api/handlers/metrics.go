package handlers

import (
	"net/http"
	"strconv"

	"github.com/linesmerrill/rider-safety-api/api"
)

// Metrics serves the in-memory route timings
type Metrics struct {
	Collector *api.MetricsCollector
}

// formatRouteMetrics converts duration fields to milliseconds for JSON serialization
func formatRouteMetrics(routes []api.RouteMetrics) []map[string]interface{} {
	result := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		result[i] = map[string]interface{}{
			"method":      route.Method,
			"path":        route.Path,
			"count":       route.Count,
			"errorCount":  route.ErrorCount,
			"avgTime":     route.AvgTime.Milliseconds(),
			"maxTime":     route.MaxTime.Milliseconds(),
			"p95Time":     route.P95Time.Milliseconds(),
			"lastRequest": route.LastRequest,
		}
	}
	return result
}

// RoutesHandler returns per-route metrics, slowest first. ?limit= caps the list.
func (m Metrics) RoutesHandler(w http.ResponseWriter, r *http.Request) {
	routes := m.Collector.Routes()
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit >= 0 && limit < len(routes) {
		routes = routes[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"routes": formatRouteMetrics(routes),
		"count":  len(routes),
	})
}
