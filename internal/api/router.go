package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cmorrow/bracketcast/internal/api/handlers"
	"github.com/cmorrow/bracketcast/internal/api/middleware"
	"github.com/cmorrow/bracketcast/internal/schedule"
	"github.com/cmorrow/bracketcast/internal/services"
	"github.com/cmorrow/bracketcast/pkg/config"
	"github.com/cmorrow/bracketcast/pkg/database"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, db *database.DB, cache *services.CacheService, ratingService *services.RatingService, sched *schedule.Schedule, cfg *config.Config) {
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	// Initialize handlers
	teamHandler := handlers.NewTeamHandler(db, sched, cfg.Season)
	ratingHandler := handlers.NewRatingHandler(ratingService, cache, cfg.Season, cacheTTL)
	bracketHandler := handlers.NewBracketHandler(ratingService, cache, cfg.Season, cacheTTL)

	// Team and rating endpoints
	group.GET("/teams", teamHandler.GetTeams)
	group.GET("/rankings/:algorithm", ratingHandler.GetRankings)
	group.GET("/predict", ratingHandler.GetPrediction)

	// Bracket endpoints burn CPU per call; keep them behind the limiter.
	bracket := group.Group("/bracket")
	bracket.Use(middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	{
		bracket.POST("/simulate", bracketHandler.SimulateBracket)
		bracket.POST("/chalk", bracketHandler.ChalkBracket)
	}
}
