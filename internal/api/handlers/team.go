package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cmorrow/bracketcast/internal/models"
	"github.com/cmorrow/bracketcast/internal/schedule"
	"github.com/cmorrow/bracketcast/pkg/database"
	"github.com/cmorrow/bracketcast/pkg/utils"
)

type TeamHandler struct {
	db     *database.DB
	sched  *schedule.Schedule
	season int
}

func NewTeamHandler(db *database.DB, sched *schedule.Schedule, season int) *TeamHandler {
	return &TeamHandler{
		db:     db,
		sched:  sched,
		season: season,
	}
}

// GetTeams returns every team in the loaded season.
// GET /api/v1/teams
func (h *TeamHandler) GetTeams(c *gin.Context) {
	if h.db != nil {
		var teams []models.Team
		if err := h.db.Where("season = ?", h.season).Order("slug").Find(&teams).Error; err == nil && len(teams) > 0 {
			utils.SendSuccess(c, gin.H{"season": h.season, "count": len(teams), "teams": teams})
			return
		}
	}

	// CSV-only deployments have no teams table; fall back to the schedule.
	slugs := h.sched.Teams()
	teams := make([]models.Team, len(slugs))
	for i, slug := range slugs {
		teams[i] = models.Team{Slug: slug, Season: h.season}
	}
	utils.SendSuccess(c, gin.H{"season": h.season, "count": len(teams), "teams": teams})
}
