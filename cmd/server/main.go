package main

import (
	"log"

	"github.com/foro-app/backend/internal/router"
	"github.com/foro-app/backend/internal/uploader"
	"github.com/foro-app/backend/pkg/config"
	"github.com/foro-app/backend/pkg/logger"
	"github.com/foro-app/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connection
	db, err := config.InitDB(cfg.MongoURI)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits
	zlog.Info("connected to MongoDB")

	// Initialize the image store client
	up, err := uploader.NewCloudinaryUploader(cfg.CloudinaryURL, cfg.UploadFolder)
	if err != nil {
		zlog.Fatal("failed to initialize image uploader", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e, zlog)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Mongo.Database(cfg.MongoDatabase), up, zlog)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
