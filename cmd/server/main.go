package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"filmbox/internal/adapters/http/middleware"
	"filmbox/internal/adapters/http/routes"
	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/adapters/storage"
	"filmbox/internal/config"
	"filmbox/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"

	_ "filmbox/docs" // Swagger docs
)

// @title Filmbox API
// @version 1.0
// @description Film catalog and streaming API with account-based purchases.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@filmbox.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}
	log.Println("Database migration completed")

	// Seed admin account and starter catalog
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Open blob store for film media
	store, err := openBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open blob store: %v", err)
	}
	defer store.Close()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Filmbox API v1.0",
		BodyLimit:    512 * 1024 * 1024,
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, store, and cfg for dependency injection)
	ratingService := routes.Setup(app, db, store, cfg)

	// Nightly rating refresh (03:00 daily)
	ratingService.Start()
	defer ratingService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func openBlobStore(cfg *config.Config) (*storage.BlobStore, error) {
	if cfg.Storage.InMemory {
		return storage.OpenInMemory()
	}
	return storage.Open(cfg.Storage.Path)
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
