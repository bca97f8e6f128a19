package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/jirani/internal/container"
	"github.com/joshua-takyi/jirani/internal/handlers"
	"github.com/joshua-takyi/jirani/internal/middleware"
	"github.com/joshua-takyi/jirani/internal/models"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(container.Metrics.Middleware())
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(container.Metrics.Handler()))
	r.Static("/uploads", container.Config.UploadDir)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse("Route not found"))
	})

	auth := middleware.Auth(container.Validator, container.Logger)
	providerOnly := middleware.RequireRole(models.RoleProvider)

	users := container.UserService
	bookings := container.BookingService
	providers := container.ProviderService
	reviews := container.ReviewService

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "jirani-api",
			})
		})
	}

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", handlers.Register(users))
		authRoutes.POST("/login", handlers.Login(users))
		authRoutes.GET("/profile", auth, handlers.GetProfile(users))
		authRoutes.PUT("/profile", auth, handlers.UpdateProfile(users))
	}

	catalogRoutes := api.Group("/services")
	{
		catalogRoutes.GET("", handlers.ListServices(providers))
		catalogRoutes.GET("/categories", handlers.ListCategories(providers))
		catalogRoutes.GET("/:id", handlers.GetService(providers))
	}

	bookingRoutes := api.Group("/bookings", auth)
	{
		bookingRoutes.POST("", handlers.CreateBooking(bookings))
		bookingRoutes.GET("", handlers.ListMyBookings(bookings))
		bookingRoutes.PATCH("/:id/cancel", handlers.CancelBooking(bookings))
	}

	providerRoutes := api.Group("/providers", auth)
	{
		providerRoutes.GET("/category/:category", handlers.ProvidersByCategory(providers))

		me := providerRoutes.Group("/me", providerOnly)
		me.GET("", handlers.GetMyProvider(providers))
		me.POST("", handlers.CreateProvider(providers))
		me.PUT("", handlers.UpdateProvider(providers))
		me.GET("/summary", handlers.ProviderSummary(providers))
		me.GET("/requests", handlers.ProviderRequests(providers, bookings))
		me.PUT("/requests/:id", handlers.UpdateRequestStatus(providers, bookings))

		providerRoutes.GET("/reviews", providerOnly, handlers.ProviderReviews(providers, reviews))
	}

	reviewRoutes := api.Group("/reviews")
	{
		reviewRoutes.GET("/all", handlers.ListAllReviews(reviews))
		reviewRoutes.POST("", auth, handlers.CreateReview(reviews))
		reviewRoutes.GET("/provider", auth, providerOnly, handlers.ProviderReviews(providers, reviews))
	}

	requestRoutes := api.Group("/service-requests", auth)
	{
		requestRoutes.GET("/completed", handlers.CompletedForSeeker(bookings))
		requestRoutes.GET("/completed/provider", providerOnly, handlers.CompletedForProvider(providers, bookings))
		requestRoutes.PATCH("/:id/status", providerOnly, handlers.UpdateRequestStatus(providers, bookings))
	}

	return r
}
