package models

import "time"

// ScheduledGame is one game on today's slate, with rest days computed
// relative to the current date.
type ScheduledGame struct {
	HomeTeam string `json:"home"`
	AwayTeam string `json:"away"`
	HomeAbbr string `json:"home_abbr"`
	AwayAbbr string `json:"away_abbr"`
	HomeRest int    `json:"home_rest"`
	AwayRest int    `json:"away_rest"`
	Status   string `json:"status"`
}

// GameInjury is an injury detail attributed to one side of a matchup.
type GameInjury struct {
	Player     string  `json:"player"`
	Team       string  `json:"team"` // abbreviation of the affected side
	Status     string  `json:"status"`
	Importance float64 `json:"importance"`
	Impact     float64 `json:"impact"`
}

// PredictionRecord is the final output for one game. Immutable once emitted.
type PredictionRecord struct {
	HomeTeam         string       `json:"home_team"`
	AwayTeam         string       `json:"away_team"`
	HomeAbbr         string       `json:"home_abbr"`
	AwayAbbr         string       `json:"away_abbr"`
	HomeWinProb      float64      `json:"home_win_prob"`
	AwayWinProb      float64      `json:"away_win_prob"`
	RawProb          float64      `json:"raw_prob"`
	InjuryAdjustment float64      `json:"injury_adjustment"`
	HomeInjuryScore  float64      `json:"home_injury_score"`
	AwayInjuryScore  float64      `json:"away_injury_score"`
	HomeRest         int          `json:"home_rest"`
	AwayRest         int          `json:"away_rest"`
	Status           string       `json:"status"`
	Injuries         []GameInjury `json:"injuries"`
}

// Report is the structured document handed to the presentation layer.
type Report struct {
	Date          string             `json:"date"`
	GeneratedAt   time.Time          `json:"generated_at"`
	ModelAccuracy string             `json:"model_accuracy"`
	TotalMatchups int                `json:"total_matchups_trained"`
	HasInjuries   bool               `json:"has_injuries"`
	Games         []PredictionRecord `json:"games"`
}
