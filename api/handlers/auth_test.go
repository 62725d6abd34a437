package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/rider-safety-api/api"
	"github.com/linesmerrill/rider-safety-api/api/handlers"
	"github.com/linesmerrill/rider-safety-api/apperrors"
	"github.com/linesmerrill/rider-safety-api/config"
	"github.com/linesmerrill/rider-safety-api/databases/mocks"
	"github.com/linesmerrill/rider-safety-api/models"
)

func newSessions(t *testing.T, rdb *mocks.RiderDatabase) *api.Sessions {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	issuer := api.NewSessionIssuer(config.SessionConfig{Secret: "test-secret", TokenTTL: time.Hour, CookieName: "jwt", CookieDays: 90})
	return api.NewSessions(ctx, issuer, rdb)
}

const registerBody = `{
	"name": "Asha",
	"email": "asha@test.local",
	"password": "hunter22",
	"uniqueKey": "key-1",
	"phoneNumber": "9999999999",
	"emergencyContacts": [{"name": "Ravi", "phone": "8888888888", "relation": "brother"}]
}`

func TestAuth_RegisterHandlerRequiresEmergencyContacts(t *testing.T) {
	for _, body := range []string{
		`{"email":"asha@test.local","password":"x"}`,
		`{"email":"asha@test.local","password":"x","emergencyContacts":[]}`,
	} {
		rdb := &mocks.RiderDatabase{}
		a := handlers.Auth{RDB: rdb, Sessions: newSessions(t, rdb)}

		rr := httptest.NewRecorder()
		a.RegisterHandler(rr, httptest.NewRequest("POST", "/auth/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"status":"failure","message":"Emergency contacts are required."}`, rr.Body.String())
		rdb.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	}
}

func TestAuth_RegisterHandler(t *testing.T) {
	rdb := &mocks.RiderDatabase{}
	id := primitive.NewObjectID()
	rdb.On("FindOne", mock.Anything, bson.M{"email": "asha@test.local"}).Return(nil, apperrors.NotFound("User"))
	rdb.On("InsertOne", mock.Anything, mock.MatchedBy(func(r *models.Rider) bool {
		return bcrypt.CompareHashAndPassword([]byte(r.Password), []byte("hunter22")) == nil &&
			len(r.EmergencyContacts) == 1
	})).Return(id, nil)
	a := handlers.Auth{RDB: rdb, Sessions: newSessions(t, rdb)}

	rr := httptest.NewRecorder()
	a.RegisterHandler(rr, httptest.NewRequest("POST", "/auth/register", strings.NewReader(registerBody)))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, id, resp.Data.User.ID)
	assert.NotContains(t, rr.Body.String(), "password")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)
}

func TestAuth_RegisterHandlerDuplicateEmail(t *testing.T) {
	rdb := &mocks.RiderDatabase{}
	rdb.On("FindOne", mock.Anything, bson.M{"email": "asha@test.local"}).Return(&models.Rider{}, nil)
	a := handlers.Auth{RDB: rdb, Sessions: newSessions(t, rdb)}

	rr := httptest.NewRecorder()
	a.RegisterHandler(rr, httptest.NewRequest("POST", "/auth/register", strings.NewReader(registerBody)))

	assert.Equal(t, http.StatusConflict, rr.Code)
	rdb.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestAuth_RegisterHandlerBadJSON(t *testing.T) {
	rdb := &mocks.RiderDatabase{}
	a := handlers.Auth{RDB: rdb, Sessions: newSessions(t, rdb)}

	rr := httptest.NewRecorder()
	a.RegisterHandler(rr, httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func loginRider(t *testing.T) *models.Rider {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Rider{ID: primitive.NewObjectID(), Name: "Asha", Email: "asha@test.local", Password: string(hash)}
}

func TestAuth_LoginHandler(t *testing.T) {
	rider := loginRider(t)
	rdb := &mocks.RiderDatabase{}
	rdb.On("FindOne", mock.Anything, bson.M{"email": "asha@test.local"}).Return(rider, nil)
	a := handlers.Auth{RDB: rdb, Sessions: newSessions(t, rdb)}

	rr := httptest.NewRecorder()
	a.LoginHandler(rr, httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":"asha@test.local","password":"hunter22"}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, rider.ID, resp.Data.User.ID)
}

func TestAuth_LoginHandlerFailures(t *testing.T) {
	rider := loginRider(t)
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing fields", `{"email":"asha@test.local"}`, "Enter data..."},
		{"unknown email", `{"email":"nobody@test.local","password":"hunter22"}`, "User not found..."},
		{"wrong password", `{"email":"asha@test.local","password":"wrong"}`, "Invalid credentials..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := &mocks.RiderDatabase{}
			rdb.On("FindOne", mock.Anything, bson.M{"email": "asha@test.local"}).Return(rider, nil)
			rdb.On("FindOne", mock.Anything, bson.M{"email": "nobody@test.local"}).Return(nil, apperrors.NotFound("User"))
			a := handlers.Auth{RDB: rdb, Sessions: newSessions(t, rdb)}

			rr := httptest.NewRecorder()
			a.LoginHandler(rr, httptest.NewRequest("POST", "/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, `{"status":"failure","message":"`+tt.message+`"}`, rr.Body.String())
			assert.Empty(t, rr.Result().Cookies())
		})
	}
}

func decodeStatus(t *testing.T, rr *httptest.ResponseRecorder) models.StatusResponse {
	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestAuth_CheckAuthHandler(t *testing.T) {
	rider := loginRider(t)
	rdb := &mocks.RiderDatabase{}
	rdb.On("FindOne", mock.Anything, bson.M{"_id": rider.ID}).Return(rider, nil)
	sessions := newSessions(t, rdb)
	a := handlers.Auth{RDB: rdb, Sessions: sessions}
	token, err := sessions.Issuer.Issue(rider.ID.Hex())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	a.CheckAuthHandler(rr, httptest.NewRequest("GET", "/auth/checkAuth", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StatusResponse{Status: "failed", Message: "Login first..."}, decodeStatus(t, rr))

	req := httptest.NewRequest("GET", "/auth/checkAuth", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rr = httptest.NewRecorder()
	a.CheckAuthHandler(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StatusResponse{Status: "success", Message: "Authorized"}, decodeStatus(t, rr))

	req = httptest.NewRequest("GET", "/auth/checkAuth", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = httptest.NewRecorder()
	a.CheckAuthHandler(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StatusResponse{Status: "failed", Message: "Unauthorized"}, decodeStatus(t, rr))
}

func TestAuth_CheckAuthHandlerUnknownRider(t *testing.T) {
	rdb := &mocks.RiderDatabase{}
	id := primitive.NewObjectID()
	rdb.On("FindOne", mock.Anything, bson.M{"_id": id}).Return(nil, apperrors.NotFound("User"))
	sessions := newSessions(t, rdb)
	a := handlers.Auth{RDB: rdb, Sessions: sessions}
	token, err := sessions.Issuer.Issue(id.Hex())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/auth/checkAuth", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	a.CheckAuthHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "User does not exist. Sign up first...", decodeStatus(t, rr).Message)
}

func TestAuth_LogoutHandlerRevokesToken(t *testing.T) {
	rider := loginRider(t)
	rdb := &mocks.RiderDatabase{}
	rdb.On("FindOne", mock.Anything, bson.M{"_id": rider.ID}).Return(rider, nil)
	sessions := newSessions(t, rdb)
	a := handlers.Auth{RDB: rdb, Sessions: sessions}
	token, err := sessions.Issuer.Issue(rider.ID.Hex())
	require.NoError(t, err)

	logout := sessions.SessionMiddleware(http.HandlerFunc(a.LogoutHandler))
	req := httptest.NewRequest("GET", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	logout.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success"}`, rr.Body.String())
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)

	req = httptest.NewRequest("GET", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	logout.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_LogoutHandlerRequiresSession(t *testing.T) {
	rdb := &mocks.RiderDatabase{}
	sessions := newSessions(t, rdb)
	a := handlers.Auth{RDB: rdb, Sessions: sessions}

	rr := httptest.NewRecorder()
	sessions.SessionMiddleware(http.HandlerFunc(a.LogoutHandler)).ServeHTTP(rr, httptest.NewRequest("GET", "/auth/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"status":"failed","message":"Unauthorized"}`, rr.Body.String())
}
