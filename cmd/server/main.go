package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cmorrow/bracketcast/internal/api"
	"github.com/cmorrow/bracketcast/internal/api/middleware"
	"github.com/cmorrow/bracketcast/internal/models"
	"github.com/cmorrow/bracketcast/internal/schedule"
	"github.com/cmorrow/bracketcast/internal/services"
	"github.com/cmorrow/bracketcast/pkg/config"
	"github.com/cmorrow/bracketcast/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// The season's games come from gamelog CSVs when SCHEDULE_DIR is set,
	// otherwise from the database (populated by cmd/migrate seed).
	var (
		db    *database.DB
		sched *schedule.Schedule
		seeds = make(map[string]int)
	)
	if cfg.ScheduleDir != "" {
		sched, err = schedule.Load(cfg.ScheduleDir, schedule.LoadOptions{Season: cfg.Season})
		if err != nil {
			logrus.Fatalf("Failed to load schedule from %s: %v", cfg.ScheduleDir, err)
		}
	} else {
		db, err = database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			logrus.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		sched, err = schedule.FromDB(db, cfg.Season)
		if err != nil {
			logrus.Fatalf("Failed to load schedule for season %d: %v", cfg.Season, err)
		}

		var teams []models.Team
		if err := db.Where("season = ? AND seed > 0", cfg.Season).Find(&teams).Error; err != nil {
			logrus.Warnf("Failed to load tournament seeds: %v", err)
		}
		for _, t := range teams {
			seeds[t.Slug] = t.Seed
		}
	}
	logrus.Infof("Season %d: %d games, %d teams, %d seeded", cfg.Season, sched.Len(), len(sched.Teams()), len(seeds))

	// Connect to Redis; the API works without it, just uncached.
	var cacheService *services.CacheService
	if opt, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logrus.Warnf("Invalid Redis URL, caching disabled: %v", err)
	} else {
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Warnf("Redis unreachable, caching disabled: %v", err)
		} else {
			cacheService = services.NewCacheService(redisClient)
			defer redisClient.Close()
		}
	}

	// Initialize services
	ratingService := services.NewRatingService(sched, seeds, cfg)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"season": cfg.Season,
			"games":  sched.Len(),
			"time":   time.Now().UTC(),
		})
	})

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, cacheService, ratingService, sched, cfg)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
