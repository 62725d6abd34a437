package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/apperrors"
	"github.com/linesmerrill/rider-safety-api/databases"
	"github.com/linesmerrill/rider-safety-api/models"
)

const jwtStrategyKey = auth.StrategyKey("rider-safety.jwt")

var (
	errNoToken      = errors.New("no session token")
	errTokenRevoked = errors.New("session token revoked")
)

type riderContextKey struct{}

// RiderFromContext returns the rider attached by SessionMiddleware
func RiderFromContext(ctx context.Context) (*models.Rider, bool) {
	rider, ok := ctx.Value(riderContextKey{}).(*models.Rider)
	return rider, ok && rider != nil
}

// WithRider attaches rider to ctx
func WithRider(ctx context.Context, rider *models.Rider) context.Context {
	return context.WithValue(ctx, riderContextKey{}, rider)
}

// Sessions authenticates requests carrying a rider session token
type Sessions struct {
	Issuer *SessionIssuer
	DB     databases.RiderDatabase

	authenticator auth.Authenticator
	revoked       store.Cache
}

// NewSessions sets up the go-guardian authenticator with the jwt strategy and
// a revocation cache that holds logged out tokens until they would expire.
func NewSessions(ctx context.Context, issuer *SessionIssuer, db databases.RiderDatabase) *Sessions {
	s := &Sessions{
		Issuer:        issuer,
		DB:            db,
		authenticator: auth.New(),
		revoked:       store.NewFIFO(ctx, issuer.TTL()),
	}
	s.authenticator.EnableStrategy(jwtStrategyKey, jwtStrategy{issuer: issuer, revoked: s.revoked})
	return s
}

// jwtStrategy accepts a signed, unexpired and unrevoked session token
type jwtStrategy struct {
	issuer  *SessionIssuer
	revoked store.Cache
}

func (j jwtStrategy) Authenticate(ctx context.Context, r *http.Request) (auth.Info, error) {
	token := j.issuer.TokenFromRequest(r)
	if token == "" {
		return nil, errNoToken
	}
	if _, ok, _ := j.revoked.Load(token, r); ok {
		return nil, errTokenRevoked
	}
	sub, err := j.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	return auth.NewDefaultUser(sub, sub, nil, nil), nil
}

// Authenticate verifies the request's session token and loads its rider
func (s *Sessions) Authenticate(r *http.Request) (*models.Rider, error) {
	info, err := s.authenticator.Authenticate(r)
	if err != nil {
		return nil, &apperrors.UnauthorizedError{Message: "Unauthorized", Err: err}
	}
	id, err := primitive.ObjectIDFromHex(info.ID())
	if err != nil {
		return nil, &apperrors.UnauthorizedError{Message: "Unauthorized", Err: err}
	}

	ctx, cancel := WithQueryTimeout(r.Context())
	defer cancel()
	rider, err := s.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		var nf *apperrors.NotFoundError
		if errors.As(err, &nf) {
			return nil, &apperrors.UnauthorizedError{Message: "User does not exist. Sign up first...", Err: err}
		}
		return nil, err
	}
	return rider, nil
}

// Revoke rejects the request's token from now on
func (s *Sessions) Revoke(r *http.Request) error {
	token := s.Issuer.TokenFromRequest(r)
	if token == "" {
		return nil
	}
	if err := s.revoked.Store(token, true, r); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// SessionMiddleware only lets requests with a valid session through and
// attaches the rider to the request context
func (s *Sessions) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rider, err := s.Authenticate(r)
		if err != nil {
			zap.S().Debugw("unauthorized",
				"url", r.URL.Path,
				"error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(apperrors.HTTPStatus(err))
			_ = json.NewEncoder(w).Encode(models.StatusResponse{Status: "failed", Message: "Unauthorized"})
			return
		}
		zap.S().Debugf("Rider %s Authenticated", rider.ID.Hex())
		next.ServeHTTP(w, r.WithContext(WithRider(r.Context(), rider)))
	})
}
