package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/api"
	"github.com/linesmerrill/rider-safety-api/apperrors"
	"github.com/linesmerrill/rider-safety-api/assessment"
	"github.com/linesmerrill/rider-safety-api/config"
	"github.com/linesmerrill/rider-safety-api/databases"
	"github.com/linesmerrill/rider-safety-api/models"
)

// MaxUploadSize bounds the multipart body accepted by DetectLabelsHandler
const MaxUploadSize = 30 << 20

// Rider exported for testing purposes
type Rider struct {
	RDB             databases.RiderDatabase
	IDB             databases.InstanceDatabase
	CDB             databases.ChallanDatabase
	Pipeline        *assessment.Pipeline
	ClassifyTimeout time.Duration
}

// DetectLabelsHandler runs violation detection on the uploaded "image"
func (rd Rider) DetectLabelsHandler(w http.ResponseWriter, r *http.Request) {
	uniqueKey := mux.Vars(r)["userUniqueKey"]

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	image, err := readImage(r)
	if err != nil {
		config.ErrorStatus("failed to read upload", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithPipelineTimeout(r.Context(), rd.ClassifyTimeout)
	defer cancel()

	res, err := rd.Pipeline.DetectViolation(ctx, uniqueKey, image)
	if err != nil {
		writeRiderError(w, err)
		return
	}
	zap.S().Infow("violation check complete",
		"uniqueKey", uniqueKey,
		"instance", res.Instance.ID.Hex(),
		"violation", res.Verdict.Violation,
		"amount", res.Verdict.Amount)

	writeJSON(w, http.StatusOK, res.Response())
}

// readImage returns the bytes of the "image" form file, or nil when the
// request has none
func readImage(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// SensorDataHandler stores one telemetry sample for the rider
func (rd Rider) SensorDataHandler(w http.ResponseWriter, r *http.Request) {
	uniqueKey := mux.Vars(r)["userUniqueKey"]

	var req models.SensorSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := rd.Pipeline.RecordSensorData(ctx, uniqueKey, req)
	if err != nil {
		writeRiderError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.StatusResponse{
		Status:  "ok",
		Message: "Sensor data saved",
		Data:    map[string]string{"id": id.Hex()},
	})
}

// GetAllInstancesHandler lists the rider's violation instances
func (rd Rider) GetAllInstancesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	rider, err := rd.Pipeline.FindRider(ctx, r.URL.Query().Get("userUniqueKey"))
	if err != nil {
		writeRiderError(w, err)
		return
	}
	instances, err := rd.IDB.FindByIDs(ctx, rider.Instances)
	if err != nil {
		writeRiderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.InstancesResponse{Status: "ok", Instances: instances})
}

// GetAllChallansHandler lists the rider's challans
func (rd Rider) GetAllChallansHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	rider, err := rd.Pipeline.FindRider(ctx, r.URL.Query().Get("userUniqueKey"))
	if err != nil {
		writeRiderError(w, err)
		return
	}
	challans, err := rd.CDB.FindByIDs(ctx, rider.Challans)
	if err != nil {
		writeRiderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ChallansResponse{Status: "ok", Challans: challans})
}

// UserExistsHandler reports whether a rider is registered with the email.
// An unknown email is still a 200.
func (rd Rider) UserExistsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	rider, err := rd.RDB.FindOne(ctx, bson.M{"email": r.URL.Query().Get("userEmail")})
	if err != nil {
		var nf *apperrors.NotFoundError
		if errors.As(err, &nf) {
			writeJSON(w, http.StatusOK, models.StatusResponse{Status: "error", Message: "User not found"})
			return
		}
		writeRiderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{
		Status:  "ok",
		Message: "User found",
		Data:    models.SessionData{User: *rider},
	})
}

// EmergencyContactsHandler returns the phone numbers of a rider's emergency contacts
func (rd Rider) EmergencyContactsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.EmergencyContactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.UniqueKey == "" {
		config.WriteError("Internal Server Error", w, apperrors.Validation("Unique key is required"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	rider, err := rd.Pipeline.FindRider(ctx, req.UniqueKey)
	if err != nil {
		writeRiderError(w, err)
		return
	}
	phoneNumbers := make([]string, 0, len(rider.EmergencyContacts))
	for _, c := range rider.EmergencyContacts {
		phoneNumbers = append(phoneNumbers, c.Phone)
	}
	writeJSON(w, http.StatusOK, models.EmergencyContactsResponse{PhoneNumbers: phoneNumbers})
}

// SensorSummaryHandler returns speed statistics over the rider's recent telemetry
func (rd Rider) SensorSummaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	summary, err := rd.Pipeline.SensorSummary(ctx, r.URL.Query().Get("userUniqueKey"))
	if err != nil {
		writeRiderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Status: "ok", Data: summary})
}

// MeHandler returns the rider attached to the session
func (rd Rider) MeHandler(w http.ResponseWriter, r *http.Request) {
	rider, ok := api.RiderFromContext(r.Context())
	if !ok {
		config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, errors.New("no rider in context"))
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Status: "success", Data: models.SessionData{User: *rider}})
}

// writeRiderError answers unknown riders with the {"status":"error"} body
// clients expect and everything else through config.WriteError
func writeRiderError(w http.ResponseWriter, err error) {
	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		zap.S().Debugw("rider not found", "error", err)
		writeJSON(w, http.StatusNotFound, models.StatusResponse{Status: "error", Message: err.Error()})
		return
	}
	config.WriteError("Internal Server Error", w, err)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
