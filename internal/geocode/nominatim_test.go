package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func TestGeocode_ParsesFirstResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "Kilimani, Nairobi", r.URL.Query().Get("q"))
		assert.Equal(t, "jirani-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"lat":"-1.2921","lon":"36.7856"},{"lat":"0","lon":"0"}]`)
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL, "jirani-test", server.Client(), nil)
	coords, err := client.Geocode(context.Background(), "  Kilimani, Nairobi ")

	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.InDelta(t, -1.2921, coords.Latitude, 1e-9)
	assert.InDelta(t, 36.7856, coords.Longitude, 1e-9)
}

func TestGeocode_EmptyResultIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	coords, err := NewNominatimClient(server.URL, "", server.Client(), nil).Geocode(context.Background(), "nowhere")

	assert.NoError(t, err)
	assert.Nil(t, coords)
}

func TestGeocode_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"upstream error", http.StatusServiceUnavailable, `[]`},
		{"malformed body", http.StatusOK, `{not json`},
		{"bad latitude", http.StatusOK, `[{"lat":"north","lon":"36.8"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.payload)
			}))
			defer server.Close()

			coords, err := NewNominatimClient(server.URL, "", server.Client(), nil).Geocode(context.Background(), "Westlands")

			assert.Error(t, err)
			assert.Nil(t, coords)
		})
	}
}

func TestGeocode_BlankAddress(t *testing.T) {
	_, err := NewNominatimClient("http://127.0.0.1:0", "", nil, nil).Geocode(context.Background(), "   ")
	assert.Error(t, err)
}

func TestGeocode_UsesCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `[{"lat":"-4.0435","lon":"39.6682"}]`)
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL, "", server.Client(), newMemoryCache())

	first, err := client.Geocode(context.Background(), "Mombasa")
	require.NoError(t, err)
	second, err := client.Geocode(context.Background(), "mombasa")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
