package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/golang-migrate/migrate/v4"
	migratemongo "github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/photogallery/backend/docs"
	"github.com/photogallery/backend/internal/auth"
	"github.com/photogallery/backend/internal/config"
	"github.com/photogallery/backend/internal/handlers"
	"github.com/photogallery/backend/internal/logger"
	"github.com/photogallery/backend/internal/middleware"
	"github.com/photogallery/backend/internal/repositories"
	"github.com/photogallery/backend/internal/services"
	"github.com/photogallery/backend/internal/storage"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const maxRequestSize = 60 * 1024 * 1024 // covers 10 files of 5MB plus form overhead

const (
	dbConnectAttempts = 3
	dbConnectDelay    = 5 * time.Second
)

// @title Photo Gallery API
// @version 1.0
// @description REST backend for uploading, browsing and organizing photos

// @host localhost:9001
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Photo Gallery backend")

	// Connect to MongoDB
	client, err := connectDB(cfg.Mongo.URI)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	db := client.Database(cfg.Mongo.Database)

	// Run migrations
	if err := runMigrations(client, cfg.Mongo.Database); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT token generator; an empty secret disables auth on
	// mutating endpoints
	var tokenGenerator *auth.TokenGenerator
	if cfg.JWT.Secret != "" {
		tokenGenerator = auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	} else {
		logger.Logger.Warn("JWT_SECRET not set, mutating endpoints are unauthenticated")
	}

	// Initialize storage
	fileStorage, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// Initialize repositories
	photoRepo := repositories.NewPhotoRepository(db)
	albumRepo := repositories.NewAlbumRepository(db)
	healthRepo := repositories.NewHealthRepository(client)

	// Initialize services
	uploader := services.NewUploader(fileStorage, logger.Logger)
	photoService := services.NewPhotoService(photoRepo, fileStorage, logger.Logger, cfg.BaseURL)
	albumService := services.NewAlbumService(albumRepo, photoRepo, fileStorage, logger.Logger, cfg.BaseURL)

	// Initialize handlers
	photosHandler := handlers.NewPhotosHandler(photoService, uploader, logger.Logger)
	albumsHandler := handlers.NewAlbumsHandler(albumService, uploader, logger.Logger)
	filesHandler := handlers.NewFilesHandler(fileStorage, logger.Logger)
	healthHandler := handlers.NewHealthHandler(healthRepo, logger.Logger)

	// Per-client throttle for the listing endpoints
	listLimiter := httprate.Limit(
		cfg.RateLimit.Requests,
		cfg.RateLimit.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
	)
	requireAuth := middleware.AuthMiddleware(tokenGenerator)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.RequestSizeLimitMiddleware(maxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	healthHandler.RegisterRoutes(r)
	photosHandler.RegisterRoutes(r, listLimiter, requireAuth)
	albumsHandler.RegisterRoutes(r, requireAuth)
	filesHandler.RegisterRoutes(r)

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second, // longer timeout for file uploads
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to MongoDB, retrying a fixed number of times before
// giving up.
func connectDB(uri string) (*mongo.Client, error) {
	var lastErr error

	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			err = client.Ping(ctx, readpref.Primary())
			if err == nil {
				cancel()
				return client, nil
			}
			client.Disconnect(ctx)
		}
		cancel()

		lastErr = err
		logger.Logger.Warn("MongoDB connection failed",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", dbConnectAttempts),
			zap.Error(err),
		)
		if attempt < dbConnectAttempts {
			time.Sleep(dbConnectDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", dbConnectAttempts, lastErr)
}

// runMigrations creates the collections' indexes
func runMigrations(client *mongo.Client, database string) error {
	driver, err := migratemongo.WithInstance(client, &migratemongo.Config{
		DatabaseName: database,
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, database, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
