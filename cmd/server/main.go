package main // Entry point package

import (
	"context" // context bounds the schema bootstrap
	"log"     // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/movie-review-api/internal/config"     // Internal config loader
	"github.com/iliyamo/movie-review-api/internal/database"   // MySQL connection + schema
	"github.com/iliyamo/movie-review-api/internal/handler"    // HTTP handlers
	"github.com/iliyamo/movie-review-api/internal/middleware" // Rate limit / cache middleware
	"github.com/iliyamo/movie-review-api/internal/queue"      // Background event consumer
	"github.com/iliyamo/movie-review-api/internal/repository" // Data access layer
	"github.com/iliyamo/movie-review-api/internal/router"     // Route registration
	queue_publisher "github.com/iliyamo/movie-review-api/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	reviews := repository.NewReviewRepo(db)

	// Redis is optional: a nil client turns the cache and the rate limiter
	// into pass-through middleware.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	// Global limiter; it runs before the route-level auth middleware, so
	// buckets are scoped by client IP and route.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret)
	router.RegisterMovies(e, handler.NewMovieHandler(movies), cfg.JWTSecret, cache)
	router.RegisterReviews(e,
		handler.NewReviewHandler(movies, reviews, queue_publisher.PublishReviewPosted),
		reviews, cfg.JWTSecret, cache)

	// Consume review.posted events in the background; the consumer keeps
	// its own reconnect loop.
	go func() {
		if err := queue.StartReviewConsumer(); err != nil {
			log.Printf("review consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
