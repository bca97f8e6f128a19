// Package modelstest provides in-memory repositories with the same
// observable behaviour as models.MySQLRepo.
package modelstest

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/jirani/internal/apperrors"
	"github.com/joshua-takyi/jirani/internal/models"
)

// Store implements every models repository interface in memory.
type Store struct {
	mu sync.Mutex

	users     map[int64]*models.User
	providers map[int64]*models.ServiceProvider
	services  map[int64][]models.Service
	requests  map[int64]*models.ServiceRequest
	reviews   []*models.Review

	nextID int64
	now    func() time.Time
}

var (
	_ models.UserRepo     = (*Store)(nil)
	_ models.ProviderRepo = (*Store)(nil)
	_ models.RequestRepo  = (*Store)(nil)
	_ models.ReviewsRepo  = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		users:     map[int64]*models.User{},
		providers: map[int64]*models.ServiceProvider{},
		services:  map[int64][]models.Service{},
		requests:  map[int64]*models.ServiceRequest{},
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// tick returns strictly increasing timestamps so recency ordering is stable.
func (s *Store) tick() time.Time {
	return s.now().Add(time.Duration(s.nextID) * time.Millisecond)
}

func (s *Store) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, apperrors.NewConflictError("email already in use")
		}
	}
	created := *user
	created.ID = s.id()
	created.CreatedAt = s.tick()
	created.UpdatedAt = created.CreatedAt
	s.users[created.ID] = &created
	out := created
	return &out, nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	out := *u
	return &out, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *Store) UpdateUser(_ context.Context, id int64, update models.UserUpdate) (*models.User, error) {
	rec := update.Record()
	if len(rec) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	if email, ok := rec["email"].(string); ok {
		for _, other := range s.users {
			if other.ID != id && strings.EqualFold(other.Email, email) {
				return nil, apperrors.NewConflictError("email already in use")
			}
		}
		u.Email = email
	}
	if v, ok := rec["username"].(string); ok {
		u.Username = v
	}
	if v, ok := rec["phone_number"].(string); ok {
		u.PhoneNumber = v
	}
	u.UpdatedAt = s.tick()
	out := *u
	return &out, nil
}

func (s *Store) providerByUser(userID int64) *models.ServiceProvider {
	for _, p := range s.providers {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (s *Store) GetProviderByID(_ context.Context, id int64) (*models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.providers[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Provider profile not found")
	}
	out := *p
	return &out, nil
}

func (s *Store) GetProviderByUserID(_ context.Context, userID int64) (*models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.providerByUser(userID)
	if p == nil {
		return nil, apperrors.NewNotFoundError("Provider profile not found")
	}
	out := *p
	return &out, nil
}

func (s *Store) ProviderExists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.providers[id]
	return ok, nil
}

func (s *Store) CreateProvider(_ context.Context, provider *models.ServiceProvider) (*models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.providerByUser(provider.UserID) != nil {
		return nil, apperrors.NewConflictError("Profile exists; use update")
	}
	created := *provider
	created.ID = s.id()
	created.Rating = 0
	created.CreatedAt = s.tick()
	created.Services = nil
	s.providers[created.ID] = &created
	s.services[created.ID] = []models.Service{{
		ID:         s.id(),
		ProviderID: created.ID,
		Name:       models.DefaultServiceName,
		Price:      models.DefaultServicePrice,
	}}
	out := created
	return &out, nil
}

func (s *Store) UpdateProvider(_ context.Context, userID int64, update models.ProviderUpdate) (*models.ServiceProvider, error) {
	rec := update.Record()
	if len(rec) == 0 {
		return nil, apperrors.NewValidationError("No updatable fields provided")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.providerByUser(userID)
	if p == nil {
		return nil, apperrors.NewNotFoundError("Provider profile not found")
	}
	for column, value := range rec {
		switch column {
		case "name":
			p.Name = value.(string)
		case "category":
			p.Category = value.(string)
		case "phone_number":
			p.PhoneNumber = value.(string)
		case "description":
			v := value.(string)
			p.Description = &v
		case "location":
			v := value.(string)
			p.Location = &v
		case "image":
			v := value.(string)
			p.Image = &v
		case "price":
			p.Price = value.(float64)
		case "lat":
			p.Lat = floatOrNil(value)
		case "lon":
			p.Lon = floatOrNil(value)
		}
	}
	out := *p
	return &out, nil
}

func floatOrNil(v interface{}) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func (s *Store) ListServices(_ context.Context, providerID int64) ([]models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Service{}, s.services[providerID]...), nil
}

func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{}
	categories := []string{}
	for _, p := range s.providers {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *Store) ListProviders(_ context.Context, filter models.ProviderFilter) ([]*models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*models.ServiceProvider{}
	for _, p := range s.providers {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MinRating > 0 && p.Rating < filter.MinRating {
			continue
		}
		cp := *p
		if filter.Near != nil && cp.Lat != nil && cp.Lon != nil {
			d := haversineKM(filter.Near.Latitude, filter.Near.Longitude, *cp.Lat, *cp.Lon)
			cp.DistanceKM = &d
		}
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if filter.Near != nil {
			if (a.DistanceKM == nil) != (b.DistanceKM == nil) {
				return a.DistanceKM != nil
			}
			if a.DistanceKM != nil && *a.DistanceKM != *b.DistanceKM {
				return *a.DistanceKM < *b.DistanceKM
			}
			return a.Rating > b.Rating
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Name < b.Name
	})
	return out, nil
}

func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Min(1, math.Sqrt(h)))
}

func (s *Store) CreateRequest(_ context.Context, req *models.ServiceRequest) (*models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *req
	created.ID = s.id()
	created.Status = models.StatusPending
	created.CreatedAt = s.tick()
	created.UpdatedAt = created.CreatedAt
	s.requests[created.ID] = &created
	out := created
	return &out, nil
}

func (s *Store) GetRequest(_ context.Context, id int64) (*models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Request not found")
	}
	out := *r
	return &out, nil
}

func (s *Store) listRequests(match func(*models.ServiceRequest) bool, status models.Status, join func(*models.ServiceRequest)) []*models.ServiceRequest {
	out := []*models.ServiceRequest{}
	for _, r := range s.requests {
		if !match(r) || (status != "" && r.Status != status) {
			continue
		}
		cp := *r
		join(&cp)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) ListRequestsBySeeker(_ context.Context, seekerID int64, status models.Status) ([]*models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listRequests(
		func(r *models.ServiceRequest) bool { return r.UserID == seekerID },
		status,
		func(r *models.ServiceRequest) {
			if p, ok := s.providers[r.ProviderID]; ok {
				r.ProviderName = p.Name
				r.ProviderCategory = p.Category
			}
		},
	), nil
}

func (s *Store) ListRequestsByProvider(_ context.Context, providerID int64, status models.Status) ([]*models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listRequests(
		func(r *models.ServiceRequest) bool { return r.ProviderID == providerID },
		status,
		func(r *models.ServiceRequest) {
			if u, ok := s.users[r.UserID]; ok {
				r.CustomerName = u.Username
				r.CustomerPhone = u.PhoneNumber
			}
		},
	), nil
}

func (s *Store) SetRequestStatus(_ context.Context, id int64, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.requests[id]; ok {
		r.Status = status
		r.UpdatedAt = s.tick()
	}
	return nil
}

func (s *Store) TransitionRequestStatus(_ context.Context, id int64, from, to models.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	r.UpdatedAt = s.tick()
	return true, nil
}

func (s *Store) ProviderSummary(_ context.Context, providerID int64) (*models.SummaryStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats models.SummaryStats
	for _, r := range s.requests {
		if r.ProviderID != providerID {
			continue
		}
		stats.TotalRequests++
		if r.Status == models.StatusCompleted {
			stats.CompletedRequests++
		}
	}

	var sum float64
	for _, rv := range s.reviews {
		if rv.RequestID == nil {
			continue
		}
		if r, ok := s.requests[*rv.RequestID]; ok && r.ProviderID == providerID {
			sum += float64(rv.Rating)
			stats.TotalReviews++
		}
	}
	if stats.TotalReviews > 0 {
		avg := sum / float64(stats.TotalReviews)
		stats.AverageRating = &avg
	}
	return &stats, nil
}

func (s *Store) CreateReview(_ context.Context, review *models.Review) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *review
	created.ID = s.id()
	created.CreatedAt = s.tick()
	s.reviews = append(s.reviews, &created)

	if p, ok := s.providers[review.ProviderID]; ok {
		var sum float64
		var n int
		for _, rv := range s.reviews {
			if rv.ProviderID == review.ProviderID {
				sum += float64(rv.Rating)
				n++
			}
		}
		p.Rating = sum / float64(n)
	}
	out := created
	return &out, nil
}

func (s *Store) joinReview(rv *models.Review) *models.Review {
	cp := *rv
	if u, ok := s.users[rv.UserID]; ok {
		cp.Username = u.Username
	}
	if p, ok := s.providers[rv.ProviderID]; ok {
		cp.ProviderName = p.Name
		cp.Category = p.Category
	}
	if rv.RequestID != nil {
		if r, ok := s.requests[*rv.RequestID]; ok {
			cp.RequestDetails = r.Details
		}
	}
	return &cp
}

func (s *Store) ListReviews(_ context.Context) ([]*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*models.Review{}
	for _, rv := range s.reviews {
		out = append(out, s.joinReview(rv))
	}
	return out, nil
}

func (s *Store) ListReviewsByProvider(_ context.Context, providerID int64) ([]*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*models.Review{}
	for i := len(s.reviews) - 1; i >= 0; i-- {
		if s.reviews[i].ProviderID == providerID {
			out = append(out, s.joinReview(s.reviews[i]))
		}
	}
	return out, nil
}
