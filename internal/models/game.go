// Package models defines the core domain entities for the prediction pipeline.
package models

import (
	"math"
	"time"
)

// GameRecord represents a single completed game from a team's game log.
// Records are immutable once ingested and ordered ascending by date.
type GameRecord struct {
	Team     string    `json:"team"`
	Date     time.Time `json:"date"`
	Matchup  string    `json:"matchup"`  // raw descriptor, e.g. "BOS vs. NYK" or "BOS @ NYK"
	Opponent string    `json:"opponent"` // full canonical name, "" if the matchup descriptor could not be mapped
	OppAbbr  string    `json:"opp_abbr"`
	Home     bool      `json:"home"`
	Win      bool      `json:"win"`
	Points   float64   `json:"points"`
	Assists  float64   `json:"assists"`
	Rebounds float64   `json:"rebounds"`
	FGPct    float64   `json:"fg_pct"`
}

// FeatureSnapshot holds the pre-game feature values for one game: everything
// is computed strictly from games earlier in the same team's timeline.
// Rolling averages cover up to their window's worth of prior games and are
// NaN only when no prior game exists.
type FeatureSnapshot struct {
	PtsAvg       float64 // rolling mean of points over the most recent prior games
	AstAvg       float64
	RebAvg       float64
	FGPct        float64 // expanding mean of field-goal% over all prior games, NaN before the first game
	RecentWinPct float64 // rolling win ratio over the most recent prior games
	WinStreak    int     // signed run length ending at the prior game; positive for wins
	HomeVenuePct float64 // cumulative win% over prior home games, 0 before the first home game
	RoadVenuePct float64 // cumulative win% over prior road games, 0 before the first road game
	OverallPct   float64 // cumulative win% over all prior games, 0 before the first game
	DaysRest     int     // calendar days since the previous game minus one; 1 for the first game
	BackToBack   bool    // DaysRest == 0
	H2HWins      int     // wins against this game's opponent strictly before this meeting
	H2HGames     int     // meetings against this game's opponent strictly before this one
}

// Defined reports whether the snapshot's rolling features have a value.
// The first game of a timeline has no prior games and therefore no averages.
func (s FeatureSnapshot) Defined() bool {
	return !math.IsNaN(s.PtsAvg) && !math.IsNaN(s.AstAvg) && !math.IsNaN(s.RebAvg)
}

// AnnotatedGame pairs a game record with its pre-game snapshot.
type AnnotatedGame struct {
	Game     GameRecord
	Snapshot FeatureSnapshot
}

// MatchupRow is one labeled training example: the home team's pre-game
// snapshot joined with the away team's snapshot for the same date, plus
// home-minus-away differentials and the realized outcome.
type MatchupRow struct {
	HomePtsAvg       float64
	HomeAstAvg       float64
	HomeRebAvg       float64
	HomeFGPct        float64
	HomeRecentWinPct float64
	HomeWinStreak    float64
	HomeVenuePct     float64
	HomeOverallPct   float64
	HomeDaysRest     float64
	HomeBackToBack   float64
	HomeH2HWins      float64
	HomeH2HGames     float64
	AwayPtsAvg       float64
	AwayAstAvg       float64
	AwayRebAvg       float64
	AwayFGPct        float64
	AwayRecentWinPct float64
	AwayWinStreak    float64
	AwayVenuePct     float64
	AwayOverallPct   float64
	AwayDaysRest     float64
	AwayBackToBack   float64
	RestDiff         float64
	WinPctDiff       float64
	PtsDiff          float64

	// Metadata, excluded from the feature vector.
	HomeWin  bool
	Date     time.Time
	HomeTeam string
	AwayTeam string
}

// FeatureNames lists the feature columns in the fixed order used by
// Features. The label and identifying metadata are deliberately absent.
func FeatureNames() []string {
	return []string{
		"HOME_PTS_AVG", "HOME_AST_AVG", "HOME_REB_AVG", "HOME_FG_PCT",
		"HOME_RECENT_WIN_PCT", "HOME_WIN_STREAK", "HOME_VENUE_PCT", "HOME_OVERALL_PCT",
		"HOME_DAYS_REST", "HOME_B2B", "HOME_H2H_WINS", "HOME_H2H_GAMES",
		"AWAY_PTS_AVG", "AWAY_AST_AVG", "AWAY_REB_AVG", "AWAY_FG_PCT",
		"AWAY_RECENT_WIN_PCT", "AWAY_WIN_STREAK", "AWAY_VENUE_PCT", "AWAY_OVERALL_PCT",
		"AWAY_DAYS_REST", "AWAY_B2B",
		"REST_DIFF", "WIN_PCT_DIFF", "PTS_DIFF",
	}
}

// Features returns the row's feature vector in FeatureNames order.
func (r *MatchupRow) Features() []float64 {
	return []float64{
		r.HomePtsAvg, r.HomeAstAvg, r.HomeRebAvg, r.HomeFGPct,
		r.HomeRecentWinPct, r.HomeWinStreak, r.HomeVenuePct, r.HomeOverallPct,
		r.HomeDaysRest, r.HomeBackToBack, r.HomeH2HWins, r.HomeH2HGames,
		r.AwayPtsAvg, r.AwayAstAvg, r.AwayRebAvg, r.AwayFGPct,
		r.AwayRecentWinPct, r.AwayWinStreak, r.AwayVenuePct, r.AwayOverallPct,
		r.AwayDaysRest, r.AwayBackToBack,
		r.RestDiff, r.WinPctDiff, r.PtsDiff,
	}
}

// HasUndefined reports whether any feature value is NaN. Rows from the first
// games of a season carry undefined rolling averages and must not be trained on.
func (r *MatchupRow) HasUndefined() bool {
	for _, v := range r.Features() {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Label returns the training label: 1 for a home win, 0 otherwise.
func (r *MatchupRow) Label() float64 {
	if r.HomeWin {
		return 1
	}
	return 0
}
