package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmorrow/bracketcast/internal/models"
	"github.com/cmorrow/bracketcast/internal/schedule"
	"github.com/cmorrow/bracketcast/internal/services"
	"github.com/cmorrow/bracketcast/internal/simulator"
	"github.com/cmorrow/bracketcast/pkg/config"
	"github.com/cmorrow/bracketcast/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	games := []models.Game{
		{Winner: "duke", Loser: "unc", WinnerScore: 80, LoserScore: 70},
		{Winner: "duke", Loser: "kansas", WinnerScore: 75, LoserScore: 70},
		{Winner: "unc", Loser: "kansas", WinnerScore: 68, LoserScore: 65},
		{Winner: "kansas", Loser: "wake-forest", WinnerScore: 90, LoserScore: 60},
	}
	sched, err := schedule.New(games)
	require.NoError(t, err)

	cfg := &config.Config{
		Season:               2025,
		EloBaseRating:        1750,
		PageRankAlpha:        0.85,
		MaxIterations:        10000,
		ConvergenceTolerance: 1e-9,
	}
	seeds := map[string]int{"duke": 1, "unc": 2, "kansas": 3, "wake-forest": 4}
	ratingService := services.NewRatingService(sched, seeds, cfg)

	ratingHandler := NewRatingHandler(ratingService, nil, cfg.Season, time.Minute)
	bracketHandler := NewBracketHandler(ratingService, nil, cfg.Season, time.Minute)
	teamHandler := NewTeamHandler(nil, sched, cfg.Season)

	r := gin.New()
	r.GET("/teams", teamHandler.GetTeams)
	r.GET("/rankings/:algorithm", ratingHandler.GetRankings)
	r.GET("/predict", ratingHandler.GetPrediction)
	r.POST("/bracket/simulate", bracketHandler.SimulateBracket)
	r.POST("/bracket/chalk", bracketHandler.ChalkBracket)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestGetTeams_FallsBackToSchedule(t *testing.T) {
	r := testRouter(t)
	w, resp := doRequest(t, r, http.MethodGet, "/teams", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 4, data["count"])
}

func TestGetRankings(t *testing.T) {
	r := testRouter(t)
	w, resp := doRequest(t, r, http.MethodGet, "/rankings/elo", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "elo", data["algorithm"])
	assert.Len(t, data["rankings"], 4)
}

func TestGetRankings_UnknownAlgorithm(t *testing.T) {
	r := testRouter(t)
	w, resp := doRequest(t, r, http.MethodGet, "/rankings/madness", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, resp.Success)
	assert.Equal(t, utils.ErrCodeUnknownAlgorithm, resp.Error.Code)
}

func TestGetPrediction(t *testing.T) {
	r := testRouter(t)
	w, resp := doRequest(t, r, http.MethodGet, "/predict?algorithm=bradley-terry&team_a=duke&team_b=wake-forest", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Greater(t, data["probability"].(float64), 0.5)
}

func TestGetPrediction_Validation(t *testing.T) {
	r := testRouter(t)

	w, resp := doRequest(t, r, http.MethodGet, "/predict?team_a=duke", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.ErrCodeValidation, resp.Error.Code)

	w, resp = doRequest(t, r, http.MethodGet, "/predict?team_a=duke&team_b=duke", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.ErrCodeValidation, resp.Error.Code)
}

func TestSimulateBracket(t *testing.T) {
	r := testRouter(t)
	body := BracketRequest{
		Algorithm: "bradley-terry",
		Teams:     []string{"duke", "wake-forest", "unc", "kansas"},
		Regions:   1,
	}
	w, resp := doRequest(t, r, http.MethodPost, "/bracket/simulate", body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	champion := data["champion"].(map[string]interface{})
	var sum float64
	for _, p := range champion {
		sum += p.(float64)
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestSimulateBracket_IncompleteField(t *testing.T) {
	r := testRouter(t)
	body := BracketRequest{
		Algorithm: "elo",
		Teams:     []string{"duke", "unc", "kansas"},
		Regions:   1,
	}
	w, resp := doRequest(t, r, http.MethodPost, "/bracket/simulate", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, resp.Success)
	assert.Equal(t, utils.ErrCodeIncompleteBracket, resp.Error.Code)
}

func TestChalkBracket(t *testing.T) {
	r := testRouter(t)
	body := BracketRequest{
		Algorithm: "seed",
		Slots: []simulator.Slot{
			{Team: "duke", Seed: 1, Region: "east"},
			{Team: "kansas", Seed: 4, Region: "east"},
			{Team: "unc", Seed: 2, Region: "east"},
			{Team: "wake-forest", Seed: 3, Region: "east"},
		},
	}
	w, resp := doRequest(t, r, http.MethodPost, "/bracket/chalk", body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "duke", data["champion"])
}
