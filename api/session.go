package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linesmerrill/rider-safety-api/config"
)

// SessionIssuer signs and verifies rider session tokens
type SessionIssuer struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	cookieDays int

	now func() time.Time
}

// NewSessionIssuer returns an issuer for the given settings
func NewSessionIssuer(conf config.SessionConfig) *SessionIssuer {
	name := conf.CookieName
	if name == "" {
		name = "jwt"
	}
	return &SessionIssuer{
		secret:     []byte(conf.Secret),
		ttl:        conf.TokenTTL,
		cookieName: name,
		cookieDays: conf.CookieDays,
		now:        time.Now,
	}
}

// CookieName is the cookie the session token travels in
func (s *SessionIssuer) CookieName() string {
	return s.cookieName
}

// TTL is how long an issued token stays valid
func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for riderID
func (s *SessionIssuer) Issue(riderID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": riderID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token signature and expiry and returns its subject
func (s *SessionIssuer) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// SetCookie attaches token to the response as a cross-site session cookie
func (s *SessionIssuer) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(time.Duration(s.cookieDays) * 24 * time.Hour),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearCookie expires the session cookie
func (s *SessionIssuer) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// TokenFromRequest returns the bearer token, falling back to the session cookie
func (s *SessionIssuer) TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); t != "" {
			return t
		}
	}
	if c, err := r.Cookie(s.cookieName); err == nil {
		return c.Value
	}
	return ""
}
