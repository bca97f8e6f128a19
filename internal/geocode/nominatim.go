// Package geocode resolves free-text locations to coordinates.
package geocode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joshua-takyi/jirani/internal/models"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	defaultHTTPTimeout  = 8 * time.Second
	defaultCacheTTL     = 30 * 24 * time.Hour
)

// Geocoder returns nil coordinates with a nil error when the address has no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

// Cache stores encoded lookups. Get returns an error on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      Cache
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewNominatimClient builds a client for an OpenStreetMap Nominatim search
// endpoint. httpClient and cache may be nil.
func NewNominatimClient(baseURL, userAgent string, httpClient *http.Client, cache Cache) *NominatimClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultNominatimURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		cache:      cache,
	}
}

func (n *NominatimClient) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("address is required")
	}

	cacheKey := "geo:nominatim:" + hashKey(strings.ToLower(trimmed))
	if n.cache != nil {
		if cached, err := n.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var coords models.Coordinates
			if err := json.Unmarshal(cached, &coords); err == nil {
				return &coords, nil
			}
		}
	}

	coords, err := n.search(ctx, trimmed)
	if err != nil || coords == nil {
		return nil, err
	}

	if n.cache != nil {
		if payload, err := json.Marshal(coords); err == nil {
			_ = n.cache.Set(ctx, cacheKey, payload, defaultCacheTTL)
		}
	}
	return coords, nil
}

func (n *NominatimClient) search(ctx context.Context, address string) (*models.Coordinates, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err)
	}
	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
