package container

import (
	"log/slog"

	"github.com/joshua-takyi/jirani/internal/config"
	"github.com/joshua-takyi/jirani/internal/geocode"
	"github.com/joshua-takyi/jirani/internal/helpers"
	"github.com/joshua-takyi/jirani/internal/middleware"
	"github.com/joshua-takyi/jirani/internal/models"
	"github.com/joshua-takyi/jirani/internal/services"
	"github.com/joshua-takyi/jirani/internal/storage"
)

// Repository is the full persistence surface; *models.MySQLRepo and
// *modelstest.Store both satisfy it.
type Repository interface {
	models.UserRepo
	models.ProviderRepo
	models.RequestRepo
	models.ReviewsRepo
}

// Deps are the collaborators opened in main.
type Deps struct {
	Repo      Repository
	Geocoder  geocode.Geocoder
	Images    storage.ImageStore
	Issuer    *helpers.TokenIssuer
	Validator middleware.TokenValidator
}

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator middleware.TokenValidator
	Metrics   *middleware.Metrics

	UserService     *services.UserService
	BookingService  *services.BookingService
	ProviderService *services.ProviderService
	ReviewService   *services.ReviewService
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger, deps Deps) *Container {
	return &Container{
		Config:    cfg,
		Logger:    logger,
		Validator: deps.Validator,
		Metrics:   middleware.NewMetrics(),

		UserService:     services.NewUserService(deps.Repo, deps.Issuer),
		BookingService:  services.NewBookingService(deps.Repo, deps.Repo, cfg.StrictStatusTransitions),
		ProviderService: services.NewProviderService(deps.Repo, deps.Repo, deps.Geocoder, deps.Images, logger),
		ReviewService:   services.NewReviewService(deps.Repo, deps.Repo),
	}
}
