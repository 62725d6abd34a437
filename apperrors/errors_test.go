package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("image file is missing"), http.StatusBadRequest},
		{"auth", &AuthError{Message: "Invalid credentials..."}, http.StatusBadRequest},
		{"unauthorized", &UnauthorizedError{Message: "Unauthorized"}, http.StatusUnauthorized},
		{"not found", NotFound("User"), http.StatusNotFound},
		{"conflict", &ConflictError{Message: "email already exists"}, http.StatusConflict},
		{"external", External("vision", errors.New("boom")), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("User")), http.StatusNotFound},
		{"plain", errors.New("mocked-error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestExternalServiceErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := External("object storage", cause)

	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "object storage: connection reset")
}

func TestNotFoundMessage(t *testing.T) {
	assert.EqualError(t, NotFound("User"), "User not found")
}
