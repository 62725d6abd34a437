package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/rider-safety-api/api"
	"github.com/linesmerrill/rider-safety-api/api/handlers"
	"github.com/linesmerrill/rider-safety-api/apperrors"
	"github.com/linesmerrill/rider-safety-api/assessment"
	"github.com/linesmerrill/rider-safety-api/classifier"
	"github.com/linesmerrill/rider-safety-api/databases/mocks"
	"github.com/linesmerrill/rider-safety-api/models"
)

type stubClassifier struct {
	result classifier.Classification
	err    error
	got    classifier.ImageInput
}

func (s *stubClassifier) Classify(ctx context.Context, in classifier.ImageInput) (classifier.Classification, error) {
	s.got = in
	return s.result, s.err
}

type riderFixture struct {
	rdb   *mocks.RiderDatabase
	sdb   *mocks.SensorDatabase
	idb   *mocks.InstanceDatabase
	cdb   *mocks.ChallanDatabase
	cls   *stubClassifier
	rider *models.Rider
	h     handlers.Rider
}

func newRiderFixture() *riderFixture {
	f := &riderFixture{
		rdb: &mocks.RiderDatabase{},
		sdb: &mocks.SensorDatabase{},
		idb: &mocks.InstanceDatabase{},
		cdb: &mocks.ChallanDatabase{},
		cls: &stubClassifier{},
		rider: &models.Rider{
			ID:        primitive.NewObjectID(),
			Name:      "Asha",
			UniqueKey: "key-1",
			Email:     "asha@test.local",
			EmergencyContacts: []models.EmergencyContact{
				{Name: "Ravi", Phone: "8888888888", Relation: "brother"},
				{Name: "Mira", Phone: "7777777777", Relation: "mother"},
			},
		},
	}
	f.rdb.On("FindOne", mock.Anything, bson.M{"uniqueKey": "key-1"}).Return(f.rider, nil)
	f.rdb.On("FindOne", mock.Anything, bson.M{"uniqueKey": "nope"}).Return(nil, apperrors.NotFound("User"))
	pipeline := assessment.NewPipeline(f.rdb, f.sdb, f.idb, f.cdb, f.cls, nil, nil)
	f.h = handlers.Rider{RDB: f.rdb, IDB: f.idb, CDB: f.cdb, Pipeline: pipeline, ClassifyTimeout: time.Second}
	return f
}

func imageRequest(t *testing.T, key string, image []byte) *http.Request {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if image != nil {
		part, err := mw.CreateFormFile("image", "helmet.jpg")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/user/detectLabels/"+key, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return mux.SetURLVars(req, map[string]string{"userUniqueKey": key})
}

func TestRider_DetectLabelsHandlerIssuesChallan(t *testing.T) {
	f := newRiderFixture()
	f.cls.result = classifier.Classification{HelmetDetected: false, Labels: []string{"Person", "Motorcycle"}, ImageURL: "https://img/a.jpg"}
	f.sdb.On("Latest", mock.Anything, f.rider.ID).Return(models.SensorSample{Speed: 95}, nil)
	instanceID, challanID := primitive.NewObjectID(), primitive.NewObjectID()
	f.idb.On("InsertOne", mock.Anything, mock.MatchedBy(func(i *models.Instance) bool {
		return !i.HelmetStatus && i.Speeding && i.TrafficViolationStatus && i.Speed == 95
	})).Return(instanceID, nil)
	f.rdb.On("PushInstance", mock.Anything, f.rider.ID, instanceID).Return(nil)
	f.cdb.On("InsertOne", mock.Anything, mock.MatchedBy(func(c *models.Challan) bool {
		return c.Amount == 1500 && c.Instance == instanceID && c.PaymentStatus == models.PaymentPending
	})).Return(challanID, nil)
	f.rdb.On("PushChallan", mock.Anything, f.rider.ID, challanID).Return(nil)

	rr := httptest.NewRecorder()
	f.h.DetectLabelsHandler(rr, imageRequest(t, "key-1", []byte("jpeg-bytes")))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Helmet not detected","labels":["Person","Motorcycle"],"imageUrl":"https://img/a.jpg"}`, rr.Body.String())
	assert.Equal(t, []byte("jpeg-bytes"), f.cls.got.Data)
	assert.Equal(t, "Asha", f.cls.got.RiderName)
	f.idb.AssertExpectations(t)
	f.cdb.AssertExpectations(t)
}

func TestRider_DetectLabelsHandlerCompliant(t *testing.T) {
	f := newRiderFixture()
	f.cls.result = classifier.Classification{HelmetDetected: true, Labels: []string{"Helmet"}, ImageURL: "https://img/b.jpg"}
	f.sdb.On("Latest", mock.Anything, f.rider.ID).Return(models.SensorSample{Speed: 40}, nil)
	instanceID := primitive.NewObjectID()
	f.idb.On("InsertOne", mock.Anything, mock.AnythingOfType("*models.Instance")).Return(instanceID, nil)
	f.rdb.On("PushInstance", mock.Anything, f.rider.ID, instanceID).Return(nil)

	rr := httptest.NewRecorder()
	f.h.DetectLabelsHandler(rr, imageRequest(t, "key-1", []byte("jpeg-bytes")))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"message":"Helmet detected"`)
	f.cdb.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestRider_DetectLabelsHandlerMissingImage(t *testing.T) {
	f := newRiderFixture()

	rr := httptest.NewRecorder()
	f.h.DetectLabelsHandler(rr, imageRequest(t, "key-1", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"status":"failure","message":"Image is required."}`, rr.Body.String())
	f.sdb.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything)
}

func TestRider_DetectLabelsHandlerUnknownRider(t *testing.T) {
	f := newRiderFixture()

	rr := httptest.NewRecorder()
	f.h.DetectLabelsHandler(rr, imageRequest(t, "nope", []byte("jpeg-bytes")))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"status":"error","message":"User not found"}`, rr.Body.String())
}

func TestRider_DetectLabelsHandlerClassifierFailure(t *testing.T) {
	f := newRiderFixture()
	f.cls.err = apperrors.External("vision", errors.New("quota exceeded"))
	f.sdb.On("Latest", mock.Anything, f.rider.ID).Return(models.SensorSample{}, nil)

	rr := httptest.NewRecorder()
	f.h.DetectLabelsHandler(rr, imageRequest(t, "key-1", []byte("jpeg-bytes")))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"status":"failure","message":"Internal Server Error"}`, rr.Body.String())
	f.idb.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func sensorRequest(key, body string) *http.Request {
	req := httptest.NewRequest("POST", "/user/sensorData/"+key, strings.NewReader(body))
	return mux.SetURLVars(req, map[string]string{"userUniqueKey": key})
}

const fullSample = `{"latitude":12.97,"longitude":77.59,"accelerometerX":0.1,"accelerometerY":0.2,"accelerometerZ":9.8,"gyroX":0,"gyroY":0,"gyroZ":0,"speed":64}`

func TestRider_SensorDataHandler(t *testing.T) {
	f := newRiderFixture()
	id := primitive.NewObjectID()
	f.sdb.On("Record", mock.Anything, f.rider.ID, mock.MatchedBy(func(s models.SensorSample) bool {
		return s.Speed == 64 && s.Latitude == 12.97 && s.GyroX == 0
	})).Return(id, nil)

	rr := httptest.NewRecorder()
	f.h.SensorDataHandler(rr, sensorRequest("key-1", fullSample))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Sensor data saved","data":{"id":"`+id.Hex()+`"}}`, rr.Body.String())
}

func TestRider_SensorDataHandlerMissingField(t *testing.T) {
	f := newRiderFixture()

	rr := httptest.NewRecorder()
	f.h.SensorDataHandler(rr, sensorRequest("key-1", `{"latitude":12.97,"longitude":77.59}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"status":"failure","message":"accelerometerX is required"}`, rr.Body.String())
	f.sdb.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestRider_SensorDataHandlerUnknownRider(t *testing.T) {
	f := newRiderFixture()

	rr := httptest.NewRecorder()
	f.h.SensorDataHandler(rr, sensorRequest("nope", fullSample))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRider_GetAllInstancesHandler(t *testing.T) {
	f := newRiderFixture()
	f.rider.Instances = []primitive.ObjectID{primitive.NewObjectID()}
	f.idb.On("FindByIDs", mock.Anything, f.rider.Instances).Return([]models.Instance{{ID: f.rider.Instances[0], Speed: 42}}, nil)

	rr := httptest.NewRecorder()
	f.h.GetAllInstancesHandler(rr, httptest.NewRequest("GET", "/user/getAllInstances?userUniqueKey=key-1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.InstancesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Instances, 1)
	assert.Equal(t, 42.0, resp.Instances[0].Speed)
}

func TestRider_ListHandlersUnknownRider(t *testing.T) {
	f := newRiderFixture()
	for name, h := range map[string]http.HandlerFunc{
		"instances": f.h.GetAllInstancesHandler,
		"challans":  f.h.GetAllChallansHandler,
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h(rr, httptest.NewRequest("GET", "/user/list?userUniqueKey=nope", nil))

			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.JSONEq(t, `{"status":"error","message":"User not found"}`, rr.Body.String())
		})
	}
}

func TestRider_GetAllChallansHandler(t *testing.T) {
	f := newRiderFixture()
	f.rider.Challans = []primitive.ObjectID{primitive.NewObjectID()}
	f.cdb.On("FindByIDs", mock.Anything, f.rider.Challans).Return([]models.Challan{{ID: f.rider.Challans[0], Amount: 500, PaymentStatus: models.PaymentPending}}, nil)

	rr := httptest.NewRecorder()
	f.h.GetAllChallansHandler(rr, httptest.NewRequest("GET", "/user/getAllChallans?userUniqueKey=key-1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"instances":[`)
	assert.Contains(t, rr.Body.String(), `"amount":500`)
}

func TestRider_GetAllChallansHandlerDatabaseError(t *testing.T) {
	f := newRiderFixture()
	f.cdb.On("FindByIDs", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	rr := httptest.NewRecorder()
	f.h.GetAllChallansHandler(rr, httptest.NewRequest("GET", "/user/getAllChallans?userUniqueKey=key-1", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"status":"failure","message":"Internal Server Error"}`, rr.Body.String())
}

func TestRider_UserExistsHandler(t *testing.T) {
	f := newRiderFixture()
	f.rdb.On("FindOne", mock.Anything, bson.M{"email": "asha@test.local"}).Return(f.rider, nil)
	f.rdb.On("FindOne", mock.Anything, bson.M{"email": "ghost@test.local"}).Return(nil, apperrors.NotFound("User"))

	rr := httptest.NewRecorder()
	f.h.UserExistsHandler(rr, httptest.NewRequest("GET", "/user/userExists?userEmail=ghost@test.local", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"error","message":"User not found"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	f.h.UserExistsHandler(rr, httptest.NewRequest("GET", "/user/userExists?userEmail=asha@test.local", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
	assert.Contains(t, rr.Body.String(), `"uniqueKey":"key-1"`)
}

func TestRider_EmergencyContactsHandler(t *testing.T) {
	f := newRiderFixture()

	rr := httptest.NewRecorder()
	f.h.EmergencyContactsHandler(rr, httptest.NewRequest("POST", "/user/getEmergencyContacts", strings.NewReader(`{"uniqueKey":"key-1"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"phoneNumbers":["8888888888","7777777777"]}`, rr.Body.String())

	rr = httptest.NewRecorder()
	f.h.EmergencyContactsHandler(rr, httptest.NewRequest("POST", "/user/getEmergencyContacts", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	f.h.EmergencyContactsHandler(rr, httptest.NewRequest("POST", "/user/getEmergencyContacts", strings.NewReader(`{"uniqueKey":"nope"}`)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRider_SensorSummaryHandler(t *testing.T) {
	f := newRiderFixture()
	f.sdb.On("Recent", mock.Anything, f.rider.ID, int64(assessment.SummaryWindow)).Return([]models.SensorSample{{Speed: 90}, {Speed: 70}}, nil)

	rr := httptest.NewRecorder()
	f.h.SensorSummaryHandler(rr, httptest.NewRequest("GET", "/user/sensorSummary?userUniqueKey=key-1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Status string               `json:"status"`
		Data   models.SensorSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Count)
	assert.Equal(t, 80.0, resp.Data.MeanSpeed)
	assert.Equal(t, 90.0, resp.Data.MaxSpeed)
	assert.Equal(t, 1, resp.Data.SpeedingSamples)
}

func TestRider_MeHandler(t *testing.T) {
	f := newRiderFixture()

	rr := httptest.NewRecorder()
	f.h.MeHandler(rr, httptest.NewRequest("GET", "/user/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest("GET", "/user/me", nil)
	req = req.WithContext(api.WithRider(req.Context(), f.rider))
	rr = httptest.NewRecorder()
	f.h.MeHandler(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"asha@test.local"`)
}

func TestRider_MeRouteWithSession(t *testing.T) {
	f := newRiderFixture()
	f.rdb.On("FindOne", mock.Anything, bson.M{"_id": f.rider.ID}).Return(f.rider, nil)
	sessions := newSessions(t, f.rdb)
	token, err := sessions.Issuer.Issue(f.rider.ID.Hex())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	sessions.SessionMiddleware(http.HandlerFunc(f.h.MeHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"uniqueKey":"key-1"`)
}
