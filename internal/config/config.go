// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Mongo     MongoConfig
	Server    ServerConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	UploadDir string
	BaseURL   string
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string
	Database string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration. An empty Secret disables
// authentication on mutating endpoints.
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// RateLimitConfig holds per-key rate limiting for listing endpoints
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// MongoDB configuration
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	cfg.Mongo.URI = mongoURI

	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "photo_gallery" // default database name
	}
	cfg.Mongo.Database = mongoDB

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "9001" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if corsOrigins == "" {
		// Default to allow all origins if not specified (for development)
		cfg.CORS.AllowedOrigins = []string{"*"}
	} else {
		// Parse comma-separated origins
		origins := strings.Split(corsOrigins, ",")
		cfg.CORS.AllowedOrigins = make([]string, 0, len(origins))
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, origin)
			}
		}
		if len(cfg.CORS.AllowedOrigins) == 0 {
			cfg.CORS.AllowedOrigins = []string{"*"}
		}
	}

	// JWT configuration; an empty secret disables the auth middleware
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")

	accessExpiryStr := os.Getenv("JWT_ACCESS_TOKEN_EXPIRY")
	if accessExpiryStr == "" {
		accessExpiryStr = "24h"
	}
	accessExpiry, err := time.ParseDuration(accessExpiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY: %w", err)
	}
	cfg.JWT.AccessTokenExpiry = accessExpiry

	// Rate limit configuration for listing endpoints
	rateLimitStr := os.Getenv("LIST_RATE_LIMIT")
	if rateLimitStr == "" {
		rateLimitStr = "1"
	}
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid LIST_RATE_LIMIT: %w", err)
	}
	cfg.RateLimit.Requests = rateLimit

	rateWindowStr := os.Getenv("LIST_RATE_WINDOW")
	if rateWindowStr == "" {
		rateWindowStr = "1s"
	}
	rateWindow, err := time.ParseDuration(rateWindowStr)
	if err != nil {
		return nil, fmt.Errorf("invalid LIST_RATE_WINDOW: %w", err)
	}
	cfg.RateLimit.Window = rateWindow

	// Upload directory configuration
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		return nil, fmt.Errorf("UPLOAD_DIR is required")
	}
	cfg.UploadDir = uploadDir

	// Base URL used to rewrite photo URLs to absolute form
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	cfg.BaseURL = strings.TrimRight(baseURL, "/")

	return cfg, nil
}
