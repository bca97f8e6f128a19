package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/jirani/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
		logged bool
	}{
		{"validation", apperrors.NewValidationError("Invalid status"), http.StatusBadRequest, `{"message":"Invalid status"}`, false},
		{"forbidden", apperrors.NewForbiddenError("Not yours"), http.StatusForbidden, `{"message":"Not yours"}`, false},
		{"not found", apperrors.NewNotFoundError("Request not found"), http.StatusNotFound, `{"message":"Request not found"}`, false},
		{"conflict", apperrors.NewConflictError("Profile exists; use update"), http.StatusConflict, `{"message":"Profile exists; use update"}`, false},
		{"internal", apperrors.NewInternalError("failed to query", errors.New("connection reset")), http.StatusInternalServerError, `{"message":"Could not fetch provider summary"}`, true},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, `{"message":"Could not fetch provider summary"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err, "Could not fetch provider summary")

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			assert.Equal(t, tt.logged, len(c.Errors) > 0)
		})
	}
}

func TestCatalogFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		ok      bool
		near    bool
		minRate float64
	}{
		{"empty", "", true, false, 0},
		{"rating only", "minRating=3.5", true, false, 3.5},
		{"point", "lat=-1.29&long=36.82", true, true, 0},
		{"half a point", "lat=-1.29", false, false, 0},
		{"out of range", "lat=120&long=36.82", false, false, 0},
		{"bad rating", "minRating=high", false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/services?"+tt.query, nil)

			filter, ok := catalogFilter(c, "plumbing")

			require.Equal(t, tt.ok, ok)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				return
			}
			assert.Equal(t, "plumbing", filter.Category)
			assert.Equal(t, tt.minRate, filter.MinRating)
			assert.Equal(t, tt.near, filter.Near != nil)
		})
	}
}

func TestProviderUpdateFormPrice(t *testing.T) {
	price := "250.5"
	update, err := providerUpdateForm{Price: (*json.Number)(&price)}.toUpdate()
	require.NoError(t, err)
	require.NotNil(t, update.Price)
	assert.Equal(t, 250.5, *update.Price)

	bad := "-3"
	_, err = providerUpdateForm{Price: (*json.Number)(&bad)}.toUpdate()
	assert.Error(t, err)
}
