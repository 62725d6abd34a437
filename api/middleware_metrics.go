package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/logging"
)

// RequestIDHeader carries the id assigned to each request
const RequestIDHeader = "X-Request-Id"

// SlowRequestThreshold is the duration above which a request is logged at warn
const SlowRequestThreshold = time.Second

// RequestLogMiddleware assigns a request id, logs every request and records
// its timing in metrics
func RequestLogMiddleware(metrics *MetricsCollector) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, requestID)

			// Wrap response writer to capture status code
			wrappedWriter := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrappedWriter, r)

			totalDuration := time.Since(startTime)
			path := routeTemplate(r)
			metrics.Record(r.Method, path, wrappedWriter.statusCode, totalDuration, startTime)

			logger := logging.WithRequestID(zap.S(), requestID)
			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrappedWriter.statusCode,
				"duration", totalDuration,
			}
			if totalDuration > SlowRequestThreshold {
				logger.Warnw("Slow request detected", fields...)
				return
			}
			logger.Infow("request", fields...)
		})
	}
}

// routeTemplate returns the matched mux template so ids in the path don't
// create a new metrics entry per rider
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
