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
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("who"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("not yours"), http.StatusForbidden},
		{"not found", NewNotFoundError("missing"), http.StatusNotFound},
		{"conflict", NewConflictError("exists"), http.StatusConflict},
		{"internal", NewInternalError("boom", errors.New("driver")), http.StatusInternalServerError},
		{"plain error", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NewNotFoundError("missing")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Missing: name", PublicMessage(NewValidationError("Missing: name"), "fallback"))
	assert.Equal(t, "fallback", PublicMessage(NewInternalError("select failed", errors.New("dial tcp")), "fallback"))
	assert.Equal(t, "fallback", PublicMessage(errors.New("raw"), "fallback"))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := NewInternalError("wrapped", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INTERNAL: wrapped: cause", err.Error())
	assert.True(t, Is(err, ErrorTypeInternal))
	assert.False(t, Is(nil, ErrorTypeInternal))
}
