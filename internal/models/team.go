package models

import "time"

// Team is one school in a season. Slug is the dashed lowercase name used by
// gamelog files and bracket definitions ("north-carolina-state"); Seed and
// Region are only meaningful for teams placed in a bracket.
type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"index:idx_team_season,unique;not null" json:"slug"`
	Season    int       `gorm:"index:idx_team_season,unique;not null" json:"season"`
	Name      string    `json:"name"`
	Seed      int       `json:"seed"`
	Region    string    `json:"region"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}
