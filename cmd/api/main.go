package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/joshua-takyi/jirani/internal/config"
	"github.com/joshua-takyi/jirani/internal/connect"
	"github.com/joshua-takyi/jirani/internal/container"
	"github.com/joshua-takyi/jirani/internal/geocode"
	"github.com/joshua-takyi/jirani/internal/helpers"
	"github.com/joshua-takyi/jirani/internal/middleware"
	"github.com/joshua-takyi/jirani/internal/models"
	"github.com/joshua-takyi/jirani/internal/routes"
	"github.com/joshua-takyi/jirani/internal/storage"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting Jirani API server", "environment", cfg.Environment)

	ctx := context.Background()

	db, err := connect.OpenMySQL(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MySQL successfully", "host", cfg.DBHost, "database", cfg.DBName)

	if cfg.AutoMigrate {
		if err := connect.EnsureSchema(ctx, db); err != nil {
			logger.Error("Failed to apply schema", "error", err)
			os.Exit(1)
		}
		logger.Info("Schema is up to date")
	}

	redisClient, err := connect.OpenRedis(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	var geoCache geocode.Cache
	if redisClient != nil {
		geoCache = geocode.NewRedisCache(redisClient)
		logger.Info("Connected to Redis successfully")
	}

	images, err := imageStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize image storage", "error", err)
		os.Exit(1)
	}

	validator, closeValidator, err := tokenValidator(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize token validation", "error", err)
		os.Exit(1)
	}

	appContainer := container.NewContainer(cfg, logger, container.Deps{
		Repo:      models.NewMySQLRepo(db),
		Geocoder:  geocode.NewNominatimClient(cfg.GeocoderURL, cfg.GeocoderUserAgent, nil, geoCache),
		Images:    images,
		Issuer:    helpers.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Validator: validator,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	closeValidator()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis client", "error", err)
		}
	}
	if err := db.Close(); err != nil {
		logger.Error("Error closing MySQL pool", "error", err)
	}

	logger.Info("Server exited")
}

// imageStore prefers Cloudinary when configured and falls back to disk.
func imageStore(cfg *config.Config, logger *slog.Logger) (storage.ImageStore, error) {
	cld, err := connect.CloudinaryCredentials(cfg)
	if err != nil {
		return nil, err
	}
	if cld != nil {
		logger.Info("Storing images on Cloudinary", "folder", storage.ProviderFolder)
		return storage.NewCloudinaryStore(cld), nil
	}
	disk, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	logger.Info("Storing images on disk", "dir", disk.Dir())
	return disk, nil
}

func tokenValidator(ctx context.Context, cfg *config.Config) (middleware.TokenValidator, func(), error) {
	if cfg.JWKSURL == "" {
		return helpers.NewHMACValidator(cfg.JWTSecret), func() {}, nil
	}
	v, err := helpers.NewJWKSValidator(ctx, cfg.JWKSURL)
	if err != nil {
		return nil, nil, err
	}
	return v, v.Close, nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
