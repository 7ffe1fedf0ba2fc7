package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cmorrow/bracketcast/internal/models"
	"github.com/cmorrow/bracketcast/internal/schedule"
	"github.com/cmorrow/bracketcast/pkg/config"
	"github.com/cmorrow/bracketcast/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db, cfg); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.Team{},
		&models.Game{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_games_season_seq ON games(season, seq)",
		"CREATE INDEX IF NOT EXISTS idx_games_winner ON games(winner)",
		"CREATE INDEX IF NOT EXISTS idx_games_loser ON games(loser)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"games",
		"teams",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

// seedData imports the gamelog CSVs from SCHEDULE_DIR into the games table
// and registers each slug in the teams table. Seeds and regions are filled
// in separately once the bracket is announced.
func seedData(db *database.DB, cfg *config.Config) error {
	if cfg.ScheduleDir == "" {
		return fmt.Errorf("SCHEDULE_DIR must point at a directory of gamelog CSVs")
	}

	s, err := schedule.Load(cfg.ScheduleDir, schedule.LoadOptions{Season: cfg.Season})
	if err != nil {
		return fmt.Errorf("failed to load gamelogs: %w", err)
	}

	if err := s.Save(db, cfg.Season); err != nil {
		return err
	}

	for _, slug := range s.Teams() {
		team := models.Team{Slug: slug, Season: cfg.Season}
		if err := db.Where("slug = ? AND season = ?", slug, cfg.Season).FirstOrCreate(&team).Error; err != nil {
			return fmt.Errorf("failed to register team %s: %w", slug, err)
		}
	}

	logrus.Infof("Seeded %d games and %d teams for season %d", s.Len(), len(s.Teams()), cfg.Season)
	return nil
}
