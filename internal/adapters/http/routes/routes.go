package routes

import (
	"filmbox/internal/adapters/http/handlers"
	"filmbox/internal/adapters/http/middleware"
	"filmbox/internal/adapters/persistence/repositories"
	"filmbox/internal/config"
	"filmbox/internal/core/services"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, store services.ContentStore, cfg *config.Config) *services.RatingService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	filmRepo := repositories.NewFilmRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	wishlistRepo := repositories.NewWishlistRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	filmService := services.NewFilmService(filmRepo, store)
	purchaseService := services.NewPurchaseService(purchaseRepo, filmRepo)
	reviewService := services.NewReviewService(reviewRepo, filmRepo)
	wishlistService := services.NewWishlistService(wishlistRepo, filmRepo)
	dashboardService := services.NewDashboardService(db)
	ratingService := services.NewRatingService(filmRepo, reviewRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	filmHandler := handlers.NewFilmHandler(filmService, purchaseService, wishlistService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Identity runs on every request so handlers always see a fresh account snapshot
	app.Use(middleware.Identity(cfg, userRepo))

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, authHandler, userHandler, filmHandler,
		reviewHandler, wishlistHandler, dashboardHandler)

	return ratingService
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	filmHandler *handlers.FilmHandler,
	reviewHandler *handlers.ReviewHandler,
	wishlistHandler *handlers.WishlistHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	// Auth routes (rate limited against credential stuffing)
	auth := router.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.RequireAuth(), authHandler.Me)

	// Film catalog routes
	films := router.Group("/films")
	films.Get("/", filmHandler.List)
	films.Get("/:id", filmHandler.Get)
	films.Get("/:id/cover", filmHandler.Cover)
	films.Get("/:id/reviews", reviewHandler.ListForFilm)

	// Authenticated film routes
	films.Post("/:id/purchase", middleware.RequireAuth(), filmHandler.Purchase)
	films.Get("/:id/watch", middleware.RequireAuth(), filmHandler.Watch)
	films.Post("/:id/reviews", middleware.RequireAuth(), reviewHandler.Add)
	films.Post("/:id/wishlist", middleware.RequireAuth(), wishlistHandler.Add)
	films.Delete("/:id/wishlist", middleware.RequireAuth(), wishlistHandler.Remove)

	// Admin film management
	films.Post("/", middleware.AdminOnly(), filmHandler.Create)
	films.Put("/:id", middleware.AdminOnly(), filmHandler.Update)
	films.Delete("/:id", middleware.AdminOnly(), filmHandler.Delete)

	// Review management
	reviews := router.Group("/reviews")
	reviews.Delete("/:id", middleware.RequireAuth(), reviewHandler.Delete)

	// Caller's purchased films
	router.Get("/purchases", middleware.RequireAuth(), filmHandler.Library)

	// Wishlist listing
	router.Get("/wishlist", middleware.RequireAuth(), wishlistHandler.List)

	// User management (admin)
	users := router.Group("/users", middleware.AdminOnly())
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Post("/:id/balance", userHandler.AdjustBalance)
	users.Delete("/:id", userHandler.Delete)

	// Admin dashboard
	router.Get("/dashboard", middleware.AdminOnly(), dashboardHandler.Admin)
}
