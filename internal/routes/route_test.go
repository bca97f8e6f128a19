package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/jirani/internal/config"
	"github.com/joshua-takyi/jirani/internal/container"
	"github.com/joshua-takyi/jirani/internal/helpers"
	"github.com/joshua-takyi/jirani/internal/models/modelstest"
	"github.com/joshua-takyi/jirani/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t         *testing.T
	router    *gin.Engine
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	uploadDir := t.TempDir()
	images, err := storage.NewDiskStore(uploadDir)
	require.NoError(t, err)

	cfg := &config.Config{
		CORSOrigins: []string{"http://localhost:5173"},
		UploadDir:   uploadDir,
	}
	c := container.NewContainer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), container.Deps{
		Repo:      modelstest.NewStore(),
		Images:    images,
		Issuer:    helpers.NewTokenIssuer("test-secret", time.Hour),
		Validator: helpers.NewHMACValidator("test-secret"),
	})
	return &testServer{t: t, router: SetupRoutes(c), uploadDir: uploadDir}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) multipart(method, path, token string, fields map[string]string, filename string) *httptest.ResponseRecorder {
	s.t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(s.t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("image", filename)
		require.NoError(s.t, err)
		_, err = part.Write([]byte("fake image"))
		require.NoError(s.t, err)
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *testServer) login(username, role string) string {
	s.t.Helper()
	email := username + "@example.com"
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username, "email": email, "password": "secret1", "role": role, "phone_number": "0711000000",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var auth struct {
		Token string `json:"token"`
	}
	decode(s.t, w, &auth)
	return auth.Token
}

func TestBookingToReviewFlow(t *testing.T) {
	s := newTestServer(t)
	seeker := s.login("sam", "seeker")
	provider := s.login("jane", "provider")

	w := s.multipart(http.MethodPost, "/api/providers/me", provider, map[string]string{
		"name": "Jane Plumbing", "category": "plumbing", "phone_number": "0700000000", "price": "500",
	}, "shop.jpg")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var profile struct {
		ID    int64  `json:"id"`
		Image string `json:"image"`
	}
	decode(t, w, &profile)
	assert.FileExists(t, filepath.Join(s.uploadDir, profile.Image))

	w = s.multipart(http.MethodPost, "/api/providers/me", provider, map[string]string{
		"name": "Again", "category": "plumbing", "phone_number": "0700000000", "price": "1",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/services?category=plumbing", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]interface{}
	decode(t, w, &listed)
	require.Len(t, listed, 1)

	w = s.do(http.MethodPost, "/api/bookings", seeker, map[string]interface{}{
		"service_id": profile.ID, "details": "Fix the sink", "booking_date": "2025-03-01T09:30",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booking struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &booking)
	assert.Equal(t, "pending", booking.Status)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/providers/me/summary", seeker, nil).Code)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/providers/me/requests/%d", booking.ID), provider, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/service-requests/completed", seeker, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var completed []map[string]interface{}
	decode(t, w, &completed)
	require.Len(t, completed, 1)
	assert.Equal(t, "Jane Plumbing", completed[0]["provider_name"])

	w = s.do(http.MethodPost, "/api/reviews", seeker, map[string]interface{}{
		"request_id": booking.ID, "review": "Quick and tidy", "rating": 6,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/reviews", seeker, map[string]interface{}{
		"request_id": booking.ID, "review": "Quick and tidy", "rating": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/providers/me/summary", provider, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalRequests":1,"completedRequests":1,"averageRating":"4.0","totalReviews":1}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/reviews/all", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]interface{}
	decode(t, w, &all)
	require.Len(t, all, 1)
	assert.Equal(t, "sam", all[0]["username"])

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/bookings/%d/cancel", booking.ID), seeker, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"message":"Only pending bookings can be cancelled"}`, w.Body.String())
}

func TestCancelPendingBooking(t *testing.T) {
	s := newTestServer(t)
	seeker := s.login("sam", "seeker")
	other := s.login("ann", "seeker")
	provider := s.login("jane", "provider")

	w := s.do(http.MethodPost, "/api/providers/me", provider, map[string]interface{}{
		"name": "Jane Plumbing", "category": "plumbing", "phone_number": "0700000000", "price": 500,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var profile struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &profile)

	w = s.do(http.MethodPost, "/api/bookings", seeker, map[string]interface{}{"service_id": profile.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var booking struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &booking)
	path := fmt.Sprintf("/api/bookings/%d/cancel", booking.ID)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, path, other, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPatch, path, seeker, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPatch, "/api/bookings/999/cancel", seeker, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPatch, "/api/bookings/abc/cancel", seeker, nil).Code)
}

func TestProviderProfileUpdate(t *testing.T) {
	s := newTestServer(t)
	provider := s.login("jane", "provider")

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/providers/me", provider, nil).Code)

	w := s.multipart(http.MethodPost, "/api/providers/me", provider, map[string]string{"category": "plumbing"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing: name, phone_number, price"}`, w.Body.String())

	w = s.multipart(http.MethodPost, "/api/providers/me", provider, map[string]string{
		"name": "Jane Plumbing", "category": "plumbing", "phone_number": "0700000000", "price": "500",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPut, "/api/providers/me", provider, map[string]interface{}{"price": 650})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	decode(t, w, &updated)
	assert.Equal(t, "Jane Plumbing", updated.Name)
	assert.Equal(t, 650.0, updated.Price)

	w = s.do(http.MethodPut, "/api/providers/me", provider, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"No updatable fields provided"}`, w.Body.String())
}

func TestAuthAndRouting(t *testing.T) {
	s := newTestServer(t)
	seeker := s.login("sam", "seeker")

	w := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/bookings", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/bookings", "garbage", nil).Code)

	w = s.do(http.MethodGet, "/api/auth/profile", seeker, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "sam@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "sam", "email": "sam@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Route not found"}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/services?lat=abc&long=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestUploadsAreServed(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.uploadDir, "123.png"), []byte("png"), 0o644))

	w := s.do(http.MethodGet, "/uploads/123.png", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}
