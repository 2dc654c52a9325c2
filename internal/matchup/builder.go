// Package matchup joins per-team pre-game snapshots into labeled
// home-vs-away training rows.
package matchup

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/swish-predictor/internal/metrics"
	"github.com/yourusername/swish-predictor/internal/models"
)

// Builder constructs the training table from annotated timelines.
type Builder struct {
	logger *logrus.Logger
}

// NewBuilder creates a matchup builder.
func NewBuilder(logger *logrus.Logger) *Builder {
	return &Builder{logger: logger}
}

const dateKeyLayout = "2006-01-02"

// Build pairs every home-game record with the opposing team's record on the
// same date. Rows with a missing opposing record or any undefined rolling
// feature are dropped, never errors. The returned table is sorted ascending
// by date; the chronological training split depends on this ordering.
func (b *Builder) Build(annotated map[string][]models.AnnotatedGame) []models.MatchupRow {
	// Index every annotated game by (team, date) for the away-side lookup.
	byTeamDate := make(map[string]map[string]models.AnnotatedGame, len(annotated))
	for team, games := range annotated {
		index := make(map[string]models.AnnotatedGame, len(games))
		for _, ag := range games {
			index[ag.Game.Date.Format(dateKeyLayout)] = ag
		}
		byTeamDate[team] = index
	}

	var rows []models.MatchupRow
	dropped := 0

	for _, team := range sortedTeams(annotated) {
		for _, home := range annotated[team] {
			if !home.Game.Home {
				continue
			}
			if home.Game.Opponent == "" {
				// Unmapped opponent descriptor; nothing to join against.
				dropped++
				continue
			}

			away, ok := byTeamDate[home.Game.Opponent][home.Game.Date.Format(dateKeyLayout)]
			if !ok {
				// Asymmetric or missing feed for the away side.
				dropped++
				continue
			}

			row := buildRow(home, away)
			if row.HasUndefined() {
				// First games of a season carry undefined rolling averages.
				dropped++
				continue
			}
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	metrics.RowsDroppedTotal.WithLabelValues("matchup").Add(float64(dropped))
	b.logger.WithFields(logrus.Fields{
		"rows":    len(rows),
		"dropped": dropped,
	}).Info("Built matchup table")

	return rows
}

func buildRow(home, away models.AnnotatedGame) models.MatchupRow {
	h, a := home.Snapshot, away.Snapshot

	return models.MatchupRow{
		HomePtsAvg:       h.PtsAvg,
		HomeAstAvg:       h.AstAvg,
		HomeRebAvg:       h.RebAvg,
		HomeFGPct:        h.FGPct,
		HomeRecentWinPct: h.RecentWinPct,
		HomeWinStreak:    float64(h.WinStreak),
		HomeVenuePct:     h.HomeVenuePct,
		HomeOverallPct:   h.OverallPct,
		HomeDaysRest:     float64(h.DaysRest),
		HomeBackToBack:   boolToFloat(h.BackToBack),
		HomeH2HWins:      float64(h.H2HWins),
		HomeH2HGames:     float64(h.H2HGames),
		AwayPtsAvg:       a.PtsAvg,
		AwayAstAvg:       a.AstAvg,
		AwayRebAvg:       a.RebAvg,
		AwayFGPct:        a.FGPct,
		AwayRecentWinPct: a.RecentWinPct,
		AwayWinStreak:    float64(a.WinStreak),
		AwayVenuePct:     a.RoadVenuePct,
		AwayOverallPct:   a.OverallPct,
		AwayDaysRest:     float64(a.DaysRest),
		AwayBackToBack:   boolToFloat(a.BackToBack),
		RestDiff:         float64(h.DaysRest - a.DaysRest),
		WinPctDiff:       h.OverallPct - a.OverallPct,
		PtsDiff:          h.PtsAvg - a.PtsAvg,

		HomeWin:  home.Game.Win,
		Date:     home.Game.Date,
		HomeTeam: home.Game.Team,
		AwayTeam: away.Game.Team,
	}
}

func sortedTeams(annotated map[string][]models.AnnotatedGame) []string {
	teams := make([]string, 0, len(annotated))
	for team := range annotated {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
