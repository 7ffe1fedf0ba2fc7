package schedule

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cmorrow/bracketcast/internal/models"
)

const gamelogSuffix = "_games.csv"

// LoadOptions controls CSV loading.
type LoadOptions struct {
	Season int
	// Strict makes an opponent outside the loaded roster a DataFormatError.
	// The default mirrors the upstream gamelog data, where games against
	// non-Division-I opponents appear in the logs and are skipped.
	Strict bool
}

// Load reads every normalized per-team gamelog file ("<slug>_games.csv")
// from dir and combines them into one Schedule.
//
// Row format: opponent, result (W/L), team score, opponent score, and
// optionally the eight four-factor columns
// (efg, opp_efg, tov, opp_tov, orb, opp_orb, ftr, opp_ftr).
//
// Every game appears in both teams' gamelogs, so only rows where the
// reporting team won are kept; the loser's copy of the same game is the
// mirror image and would double-count it.
func Load(dir string, opts LoadOptions) (*Schedule, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule dir: %w", err)
	}

	var files []string
	roster := make(map[string]struct{})
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), gamelogSuffix) {
			continue
		}
		files = append(files, e.Name())
		roster[strings.TrimSuffix(e.Name(), gamelogSuffix)] = struct{}{}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", gamelogSuffix, dir)
	}
	sort.Strings(files)

	var games []models.Game
	for _, name := range files {
		team := strings.TrimSuffix(name, gamelogSuffix)
		teamGames, err := loadTeamFile(filepath.Join(dir, name), team, roster, opts)
		if err != nil {
			return nil, err
		}
		if len(teamGames) == 0 {
			logrus.Warnf("Team %s has no usable games in %s", team, name)
		}
		games = append(games, teamGames...)
	}

	s, err := New(games)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded %d games for %d teams from %s", s.Len(), len(s.Teams()), dir)
	return s, nil
}

func loadTeamFile(path, team string, roster map[string]struct{}, opts LoadOptions) ([]models.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gamelog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, &DataFormatError{Source: path, Reason: err.Error()}
	}

	var games []models.Game
	for i, row := range records {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) != 4 && len(row) != 12 {
			return nil, &DataFormatError{Source: path, Line: i + 1, Reason: fmt.Sprintf("expected 4 or 12 columns, got %d", len(row))}
		}

		opponent := strings.TrimSpace(row[0])
		if opponent == team {
			return nil, &DataFormatError{Source: path, Line: i + 1, Reason: "team listed as its own opponent"}
		}
		if _, ok := roster[opponent]; !ok {
			if opts.Strict {
				return nil, &DataFormatError{Source: path, Line: i + 1, Reason: fmt.Sprintf("unknown team reference %q", opponent)}
			}
			continue
		}

		result := strings.TrimSpace(row[1])
		won := strings.Contains(result, "W")
		if !won && !strings.Contains(result, "L") {
			return nil, &DataFormatError{Source: path, Line: i + 1, Reason: fmt.Sprintf("unrecognized result %q", result)}
		}
		if !won {
			// The winner's gamelog carries this game.
			continue
		}

		teamScore, err := parseScore(row[2])
		if err != nil {
			return nil, &DataFormatError{Source: path, Line: i + 1, Reason: err.Error()}
		}
		oppScore, err := parseScore(row[3])
		if err != nil {
			return nil, &DataFormatError{Source: path, Line: i + 1, Reason: err.Error()}
		}

		g := models.Game{
			Season:      opts.Season,
			Winner:      team,
			Loser:       opponent,
			WinnerScore: teamScore,
			LoserScore:  oppScore,
		}
		if len(row) == 12 {
			factors, err := parseFactors(row[4:])
			if err != nil {
				return nil, &DataFormatError{Source: path, Line: i + 1, Reason: err.Error()}
			}
			g.HasFactors = true
			g.WinnerEFG, g.LoserEFG = factors[0], factors[1]
			g.WinnerTOV, g.LoserTOV = factors[2], factors[3]
			g.WinnerORB, g.LoserORB = factors[4], factors[5]
			g.WinnerFTR, g.LoserFTR = factors[6], factors[7]
		}
		games = append(games, g)
	}
	return games, nil
}

func parseScore(field string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, fmt.Errorf("non-numeric score %q", field)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative score %d", v)
	}
	return v, nil
}

func parseFactors(fields []string) ([8]float64, error) {
	var out [8]float64
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return out, fmt.Errorf("non-numeric stat %q", field)
		}
		out[i] = v
	}
	return out, nil
}
