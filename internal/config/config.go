package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBMaxOpenConns int
	AutoMigrate    bool

	JWTSecret string
	JWTTTL    time.Duration
	JWKSURL   string

	CORSOrigins []string
	UploadDir   string

	GeocoderURL       string
	GeocoderUserAgent string
	RedisURL          string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	StrictStatusTransitions bool
}

func LoadConfig() (*Config, error) {
	ttl, err := time.ParseDuration(getEnvWithDefault("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("JWT_TTL is invalid: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnvWithDefault("DB_MAX_OPEN_CONNS", "10"))
	if err != nil || maxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be a positive integer")
	}

	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "5000"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),

		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         getEnvWithDefault("DB_PORT", "3306"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBMaxOpenConns: maxConns,
		AutoMigrate:    getBool("AUTO_MIGRATE", false),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    ttl,
		JWKSURL:   os.Getenv("JWKS_URL"),

		CORSOrigins: splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:5173")),
		UploadDir:   getEnvWithDefault("UPLOAD_DIR", "uploads"),

		GeocoderURL:       getEnvWithDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent: getEnvWithDefault("GEOCODER_USER_AGENT", "jirani-api/1.0"),
		RedisURL:          os.Getenv("REDIS_URL"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		StrictStatusTransitions: getBool("STRICT_STATUS_TRANSITIONS", false),
	}

	// Validate required fields
	if cfg.DBHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	if cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	if cfg.JWTSecret == "" && cfg.JWKSURL == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// CloudinaryEnabled reports whether uploads should go to Cloudinary instead of disk.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// MySQLDSN builds the go-sql-driver DSN. parseTime and UTC match how the
// tables store timestamps.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
