package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cmorrow/bracketcast/internal/services"
	"github.com/cmorrow/bracketcast/pkg/utils"
)

type RatingHandler struct {
	ratingService *services.RatingService
	cache         *services.CacheService
	season        int
	cacheTTL      time.Duration
}

func NewRatingHandler(ratingService *services.RatingService, cache *services.CacheService, season int, cacheTTL time.Duration) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		cache:         cache,
		season:        season,
		cacheTTL:      cacheTTL,
	}
}

// GetRankings returns the full leaderboard under one algorithm.
// GET /api/v1/rankings/:algorithm
func (h *RatingHandler) GetRankings(c *gin.Context) {
	algorithm := c.Param("algorithm")

	cacheKey := services.RankingsCacheKey(h.season, algorithm)
	if h.cache != nil {
		var cached []services.RankEntry
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			utils.SendSuccess(c, gin.H{"algorithm": algorithm, "season": h.season, "rankings": cached})
			return
		}
	}

	rankings, err := h.ratingService.Rankings(algorithm)
	if err != nil {
		var unknown *services.ErrUnknownAlgorithm
		if errors.As(err, &unknown) {
			utils.SendError(c, http.StatusNotFound,
				utils.NewAppError(utils.ErrCodeUnknownAlgorithm, "Unknown algorithm", unknown.Algorithm))
			return
		}
		utils.SendInternalError(c, "Failed to compute rankings")
		return
	}

	if h.cache != nil {
		_ = h.cache.Set(c.Request.Context(), cacheKey, rankings, h.cacheTTL)
	}
	utils.SendSuccess(c, gin.H{"algorithm": algorithm, "season": h.season, "rankings": rankings})
}

// GetPrediction answers P(team_a beats team_b) under one algorithm.
// GET /api/v1/predict?algorithm=elo&team_a=duke&team_b=kansas
func (h *RatingHandler) GetPrediction(c *gin.Context) {
	algorithm := c.DefaultQuery("algorithm", services.AlgorithmHybrid)
	teamA := c.Query("team_a")
	teamB := c.Query("team_b")

	if teamA == "" || teamB == "" {
		utils.SendValidationError(c, "Missing team", "Both team_a and team_b are required")
		return
	}
	if teamA == teamB {
		utils.SendValidationError(c, "Invalid matchup", "A team cannot play itself")
		return
	}

	cacheKey := services.PredictCacheKey(h.season, algorithm, teamA, teamB)
	if h.cache != nil {
		var cached gin.H
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			utils.SendSuccess(c, cached)
			return
		}
	}

	p, err := h.ratingService.Predict(algorithm, teamA, teamB)
	if err != nil {
		var unknown *services.ErrUnknownAlgorithm
		if errors.As(err, &unknown) {
			utils.SendError(c, http.StatusNotFound,
				utils.NewAppError(utils.ErrCodeUnknownAlgorithm, "Unknown algorithm", unknown.Algorithm))
			return
		}
		utils.SendInternalError(c, "Failed to compute prediction")
		return
	}

	payload := gin.H{
		"algorithm":   algorithm,
		"season":      h.season,
		"team_a":      teamA,
		"team_b":      teamB,
		"probability": p,
	}
	if h.cache != nil {
		_ = h.cache.Set(c.Request.Context(), cacheKey, payload, h.cacheTTL)
	}
	utils.SendSuccess(c, payload)
}
