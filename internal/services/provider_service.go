package services

import (
	"context"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/joshua-takyi/jirani/internal/apperrors"
	"github.com/joshua-takyi/jirani/internal/geocode"
	"github.com/joshua-takyi/jirani/internal/helpers"
	"github.com/joshua-takyi/jirani/internal/models"
	"github.com/joshua-takyi/jirani/internal/storage"
)

type ProviderService struct {
	providers models.ProviderRepo
	requests  models.RequestRepo
	geocoder  geocode.Geocoder
	images    storage.ImageStore
	logger    *slog.Logger
}

func NewProviderService(
	providers models.ProviderRepo,
	requests models.RequestRepo,
	geocoder geocode.Geocoder,
	images storage.ImageStore,
	logger *slog.Logger,
) *ProviderService {
	return &ProviderService{
		providers: providers,
		requests:  requests,
		geocoder:  geocoder,
		images:    images,
		logger:    logger,
	}
}

// ProviderIDForUser resolves the provider profile owned by userID.
func (ps *ProviderService) ProviderIDForUser(ctx context.Context, userID int64) (int64, error) {
	provider, err := ps.providers.GetProviderByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return provider.ID, nil
}

func (ps *ProviderService) GetMyProfile(ctx context.Context, userID int64) (*models.ServiceProvider, error) {
	return ps.providers.GetProviderByUserID(ctx, userID)
}

func (ps *ProviderService) CreateProfile(ctx context.Context, userID int64, in models.ProviderInput, image *multipart.FileHeader) (*models.ServiceProvider, error) {
	if missing := in.Missing(); len(missing) > 0 {
		return nil, apperrors.NewValidationError("Missing: " + strings.Join(missing, ", "))
	}
	price, err := models.ParsePrice(string(in.Price))
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	_, err = ps.providers.GetProviderByUserID(ctx, userID)
	if err == nil {
		return nil, apperrors.NewConflictError("Profile exists; use update")
	}
	if !apperrors.Is(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	provider := &models.ServiceProvider{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Description: helpers.StringPtr(in.Description),
		Price:       price,
		Location:    helpers.StringPtr(in.Location),
	}
	if provider.Location != nil {
		if coords := ps.locate(ctx, *provider.Location); coords != nil {
			provider.Lat = &coords.Latitude
			provider.Lon = &coords.Longitude
		}
	}
	if image != nil {
		ref, err := ps.images.Save(ctx, image)
		if err != nil {
			return nil, err
		}
		provider.Image = &ref
	}

	return ps.providers.CreateProvider(ctx, provider)
}

// UpdateProfile applies the present fields. A new location is re-geocoded;
// when that fails the coordinates are cleared.
func (ps *ProviderService) UpdateProfile(ctx context.Context, userID int64, update models.ProviderUpdate, image *multipart.FileHeader) (*models.ServiceProvider, error) {
	if update.IsEmpty() && image == nil {
		return nil, apperrors.NewValidationError("No updatable fields provided")
	}
	if _, err := ps.providers.GetProviderByUserID(ctx, userID); err != nil {
		return nil, err
	}

	if image != nil {
		ref, err := ps.images.Save(ctx, image)
		if err != nil {
			return nil, err
		}
		update.Image = &ref
	}
	if update.HasLocation() {
		update.Geo = ps.locate(ctx, *update.Location)
	}

	return ps.providers.UpdateProvider(ctx, userID, update)
}

// locate geocodes best-effort; failures are logged and yield nil.
func (ps *ProviderService) locate(ctx context.Context, location string) *models.Coordinates {
	if ps.geocoder == nil {
		return nil
	}
	coords, err := ps.geocoder.Geocode(ctx, location)
	if err != nil {
		ps.logger.Warn("geocoding failed", "location", location, "error", err)
		return nil
	}
	if coords == nil {
		ps.logger.Warn("no geocoding result", "location", location)
	}
	return coords
}

func (ps *ProviderService) Summary(ctx context.Context, userID int64) (*models.ProviderSummary, error) {
	providerID, err := ps.ProviderIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := ps.requests.ProviderSummary(ctx, providerID)
	if err != nil {
		return nil, err
	}
	summary := stats.Summary()
	return &summary, nil
}

func (ps *ProviderService) Categories(ctx context.Context) ([]string, error) {
	return ps.providers.ListCategories(ctx)
}

func (ps *ProviderService) ListProviders(ctx context.Context, filter models.ProviderFilter) ([]*models.ServiceProvider, error) {
	if filter.MinRating < 0 || filter.MinRating > 5 {
		return nil, apperrors.NewValidationError("minRating must be between 0 and 5")
	}
	filter.Category = strings.TrimSpace(filter.Category)
	return ps.providers.ListProviders(ctx, filter)
}

// GetProvider returns a provider together with its services.
func (ps *ProviderService) GetProvider(ctx context.Context, id int64) (*models.ServiceProvider, error) {
	provider, err := ps.providers.GetProviderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	services, err := ps.providers.ListServices(ctx, id)
	if err != nil {
		return nil, err
	}
	provider.Services = services
	return provider, nil
}
