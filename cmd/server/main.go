package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the process environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/property-rental/internal/config"                  // Internal config loader
	"github.com/iliyamo/property-rental/internal/database"                // MySQL connection helper
	"github.com/iliyamo/property-rental/internal/handler"                 // HTTP handlers
	"github.com/iliyamo/property-rental/internal/middleware"              // JWT, role, rate-limit and cache middleware
	"github.com/iliyamo/property-rental/internal/queue"                   // Booking event consumer
	"github.com/iliyamo/property-rental/internal/repository"              // Data access layer
	"github.com/iliyamo/property-rental/internal/router"                  // Route registration
	queue_publisher "github.com/iliyamo/property-rental/internal/service" // RabbitMQ event publisher
)

func main() {
	_ = godotenv.Load() // Load .env when present; real environment variables win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Repositories share the single connection pool.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	propertyRepo := repository.NewPropertyRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	reviewRepo := repository.NewReviewRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	guestHandler := handler.NewGuestHandler(propertyRepo, bookingRepo, reviewRepo)
	guestHandler.Events = queue_publisher.PublishBookingCreated // announce admitted bookings on the queue
	hostHandler := handler.NewHostHandler(propertyRepo, bookingRepo)
	publicHandler := handler.NewPublicHandler(propertyRepo, reviewRepo)

	e := echo.New() // Create Echo instance

	// Redis backs the rate limiter and the public response cache.  A nil
	// client disables both and the API keeps working without Redis.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	browseCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, browseCache)
	router.RegisterGuest(e, guestHandler, cfg.JWTSecret)
	router.RegisterHost(e, hostHandler, cfg.JWTSecret)

	// Background workers: mark finished stays as completed and drain the
	// booking.created queue into logs/booking.log.
	go repository.RunCompletionSweeper(bookingRepo)
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
