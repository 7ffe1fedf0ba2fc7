package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cmorrow/bracketcast/internal/ratings"
	"github.com/cmorrow/bracketcast/internal/services"
	"github.com/cmorrow/bracketcast/internal/simulator"
	"github.com/cmorrow/bracketcast/pkg/utils"
)

// BracketRequest describes a tournament field. Either Slots (explicit seeds
// and regions, in bracket order) or Teams (flat list split into Regions
// equal regions, standard seed order) must be given, not both.
type BracketRequest struct {
	Algorithm string           `json:"algorithm"`
	Slots     []simulator.Slot `json:"slots,omitempty"`
	Teams     []string         `json:"teams,omitempty"`
	Regions   int              `json:"regions,omitempty"`
}

type BracketHandler struct {
	ratingService *services.RatingService
	cache         *services.CacheService
	season        int
	cacheTTL      time.Duration
}

func NewBracketHandler(ratingService *services.RatingService, cache *services.CacheService, season int, cacheTTL time.Duration) *BracketHandler {
	return &BracketHandler{
		ratingService: ratingService,
		cache:         cache,
		season:        season,
		cacheTTL:      cacheTTL,
	}
}

func (h *BracketHandler) parseRequest(c *gin.Context) (*simulator.Bracket, string, []byte, bool) {
	var req BracketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return nil, "", nil, false
	}
	if req.Algorithm == "" {
		req.Algorithm = services.AlgorithmHybrid
	}
	if len(req.Slots) > 0 && len(req.Teams) > 0 {
		utils.SendValidationError(c, "Ambiguous field", "Provide either slots or teams, not both")
		return nil, "", nil, false
	}

	var (
		bracket *simulator.Bracket
		err     error
	)
	switch {
	case len(req.Slots) > 0:
		bracket, err = simulator.NewBracket(req.Slots)
	case len(req.Teams) > 0:
		regions := req.Regions
		if regions == 0 {
			regions = 4
		}
		bracket, err = simulator.NewBracketFromNames(req.Teams, regions)
	default:
		utils.SendValidationError(c, "Empty field", "Provide slots or teams")
		return nil, "", nil, false
	}
	if err != nil {
		var incomplete *simulator.IncompleteBracketError
		if errors.As(err, &incomplete) {
			utils.SendError(c, http.StatusBadRequest,
				utils.NewAppError(utils.ErrCodeIncompleteBracket, "Bracket cannot be simulated", incomplete.Reason))
			return nil, "", nil, false
		}
		utils.SendInternalError(c, "Failed to build bracket")
		return nil, "", nil, false
	}

	// Canonical payload for the cache key: the validated slots, not the raw body.
	payload, _ := json.Marshal(struct {
		Slots []simulator.Slot `json:"slots"`
	}{Slots: bracket.Slots()})

	return bracket, req.Algorithm, payload, true
}

// comparator resolves the algorithm. The seed algorithm is special-cased to
// use the seeds of the field being simulated rather than the stored season
// seeds, so ad-hoc brackets work without a teams table.
func (h *BracketHandler) comparator(c *gin.Context, algorithm string, bracket *simulator.Bracket) (ratings.Comparator, bool) {
	if algorithm == services.AlgorithmSeed {
		return ratings.NewSeedComparator(bracket.Seeds(), ratings.DefaultSeedStdev), true
	}

	built, err := h.ratingService.Comparator(algorithm)
	if err != nil {
		var unknown *services.ErrUnknownAlgorithm
		if errors.As(err, &unknown) {
			utils.SendError(c, http.StatusNotFound,
				utils.NewAppError(utils.ErrCodeUnknownAlgorithm, "Unknown algorithm", unknown.Algorithm))
			return nil, false
		}
		utils.SendInternalError(c, "Failed to build comparator")
		return nil, false
	}
	return built, true
}

// SimulateBracket resolves every matchup's advancement odds.
// POST /api/v1/bracket/simulate
func (h *BracketHandler) SimulateBracket(c *gin.Context) {
	bracket, algorithm, payload, ok := h.parseRequest(c)
	if !ok {
		return
	}

	cacheKey := services.BracketCacheKey(h.season, algorithm+":odds", payload)
	if h.cache != nil {
		var cached simulator.OddsResult
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			utils.SendSuccess(c, cached)
			return
		}
	}

	cmp, ok := h.comparator(c, algorithm, bracket)
	if !ok {
		return
	}

	result := bracket.SimulateOdds(cmp)
	if h.cache != nil {
		_ = h.cache.Set(c.Request.Context(), cacheKey, result, h.cacheTTL)
	}
	utils.SendSuccess(c, result)
}

// ChalkBracket picks the most likely winner of every matchup.
// POST /api/v1/bracket/chalk
func (h *BracketHandler) ChalkBracket(c *gin.Context) {
	bracket, algorithm, payload, ok := h.parseRequest(c)
	if !ok {
		return
	}

	cacheKey := services.BracketCacheKey(h.season, algorithm+":chalk", payload)
	if h.cache != nil {
		var cached simulator.ChalkResult
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			utils.SendSuccess(c, cached)
			return
		}
	}

	cmp, ok := h.comparator(c, algorithm, bracket)
	if !ok {
		return
	}

	result := bracket.PickChalk(cmp)
	if h.cache != nil {
		_ = h.cache.Set(c.Request.Context(), cacheKey, result, h.cacheTTL)
	}
	utils.SendSuccess(c, result)
}
