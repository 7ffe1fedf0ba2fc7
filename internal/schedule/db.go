package schedule

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cmorrow/bracketcast/internal/models"
	"github.com/cmorrow/bracketcast/pkg/database"
)

// FromDB loads a season's games from the database in chronological order.
func FromDB(db *database.DB, season int) (*Schedule, error) {
	var games []models.Game
	if err := db.Where("season = ?", season).Order("seq asc").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to load games for season %d: %w", season, err)
	}
	return New(games)
}

// Save replaces a season's stored games with this schedule's games.
func (s *Schedule) Save(db *database.DB, season int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("season = ?", season).Delete(&models.Game{}).Error; err != nil {
			return fmt.Errorf("failed to clear season %d: %w", season, err)
		}
		games := make([]models.Game, len(s.games))
		copy(games, s.games)
		for i := range games {
			games[i].ID = 0
			games[i].Season = season
		}
		if len(games) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(games, 500).Error; err != nil {
			return fmt.Errorf("failed to insert games: %w", err)
		}
		return nil
	})
}
