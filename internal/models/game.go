package models

import "time"

// Game is one completed game, recorded from the winner's point of view:
// Winner and Loser are team slugs and WinnerScore >= LoserScore always holds.
// Seq preserves chronological play order within a season, which the Elo pass
// depends on. Rematches are separate rows; nothing is deduplicated.
//
// The four-factor percentages (effective field goal, turnover, offensive
// rebound, free throw rate) are optional box-score detail used to weight
// win-graph edges. HasFactors reports whether they were present in the
// source gamelog.
type Game struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Season      int    `gorm:"index" json:"season"`
	Seq         int    `gorm:"index" json:"seq"`
	Winner      string `gorm:"index;not null" json:"winner"`
	Loser       string `gorm:"index;not null" json:"loser"`
	WinnerScore int    `json:"winner_score"`
	LoserScore  int    `json:"loser_score"`

	HasFactors bool    `json:"has_factors"`
	WinnerEFG  float64 `json:"winner_efg"`
	LoserEFG   float64 `json:"loser_efg"`
	WinnerTOV  float64 `json:"winner_tov"`
	LoserTOV   float64 `json:"loser_tov"`
	WinnerORB  float64 `json:"winner_orb"`
	LoserORB   float64 `json:"loser_orb"`
	WinnerFTR  float64 `json:"winner_ftr"`
	LoserFTR   float64 `json:"loser_ftr"`

	CreatedAt time.Time `json:"created_at"`
}

func (Game) TableName() string {
	return "games"
}

// Margin is the winner's score margin, never negative.
func (g Game) Margin() int {
	return g.WinnerScore - g.LoserScore
}
