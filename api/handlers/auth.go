package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/rider-safety-api/api"
	"github.com/linesmerrill/rider-safety-api/apperrors"
	"github.com/linesmerrill/rider-safety-api/config"
	"github.com/linesmerrill/rider-safety-api/databases"
	"github.com/linesmerrill/rider-safety-api/models"
)

// Auth exported for testing purposes
type Auth struct {
	RDB      databases.RiderDatabase
	Sessions *api.Sessions
}

// RegisterHandler creates a rider and starts a session for them
func (a Auth) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if len(req.EmergencyContacts) == 0 {
		config.ErrorStatus("Emergency contacts are required.", http.StatusBadRequest, w, errors.New("missing emergency contacts"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		config.WriteError("Internal Server Error", w, apperrors.Validation("Email and password are required."))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := a.RDB.FindOne(ctx, bson.M{"email": req.Email})
	if err == nil {
		config.WriteError("Internal Server Error", w, &apperrors.ConflictError{Message: "Email is already registered."})
		return
	}
	var nf *apperrors.NotFoundError
	if !errors.As(err, &nf) {
		config.ErrorStatus("failed to check existing rider", http.StatusInternalServerError, w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	rider := &models.Rider{
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		UniqueKey:         req.UniqueKey,
		Password:          string(hash),
		EmergencyContacts: req.EmergencyContacts,
		Address:           req.Address,
		Email:             req.Email,
		ProfilePicture:    req.ProfilePicture,
	}
	id, err := a.RDB.InsertOne(ctx, rider)
	if err != nil {
		config.ErrorStatus("failed to create rider", http.StatusInternalServerError, w, err)
		return
	}
	rider.ID = id
	zap.S().Infow("registered rider", "rider", id.Hex())

	a.sendSession(w, rider)
}

// LoginHandler checks a rider's credentials and starts a session
func (a Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		config.WriteError("Internal Server Error", w, &apperrors.AuthError{Message: "Enter data..."})
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	rider, err := a.RDB.FindOne(ctx, bson.M{"email": strings.TrimSpace(req.Email)})
	if err != nil {
		var nf *apperrors.NotFoundError
		if errors.As(err, &nf) {
			config.WriteError("Internal Server Error", w, &apperrors.AuthError{Message: "User not found..."})
			return
		}
		config.ErrorStatus("failed to get rider by email", http.StatusInternalServerError, w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rider.Password), []byte(req.Password)); err != nil {
		config.WriteError("Internal Server Error", w, &apperrors.AuthError{Message: "Invalid credentials..."})
		return
	}

	a.sendSession(w, rider)
}

// LogoutHandler revokes the current token and clears the session cookie
func (a Auth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Revoke(r); err != nil {
		zap.S().Warnw("failed to revoke token", "error", err)
	}
	a.Sessions.Issuer.ClearCookie(w)
	writeJSON(w, http.StatusOK, models.StatusResponse{Status: "success"})
}

// CheckAuthHandler always answers 200 and reports whether the session is valid
func (a Auth) CheckAuthHandler(w http.ResponseWriter, r *http.Request) {
	if a.Sessions.Issuer.TokenFromRequest(r) == "" {
		writeJSON(w, http.StatusOK, models.StatusResponse{Status: "failed", Message: "Login first..."})
		return
	}
	_, err := a.Sessions.Authenticate(r)
	if err != nil {
		message := "Unauthorized"
		var nf *apperrors.NotFoundError
		if errors.As(err, &nf) {
			message = "User does not exist. Sign up first..."
		}
		zap.S().Debugw("session check failed", "error", err)
		writeJSON(w, http.StatusOK, models.StatusResponse{Status: "failed", Message: message})
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Status: "success", Message: "Authorized"})
}

func (a Auth) sendSession(w http.ResponseWriter, rider *models.Rider) {
	token, err := a.Sessions.Issuer.Issue(rider.ID.Hex())
	if err != nil {
		config.ErrorStatus("failed to issue token", http.StatusInternalServerError, w, err)
		return
	}
	a.Sessions.Issuer.SetCookie(w, token)
	writeJSON(w, http.StatusOK, models.SessionResponse{
		Status: "success",
		Token:  token,
		Data:   models.SessionData{User: *rider},
	})
}
