package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/swish-predictor/internal/models"
)

// GameLogSource provides per-team completed-game logs for a season.
// Essential: a fetch failure after retries aborts the run.
type GameLogSource interface {
	// FetchSeasonGameLogs returns every team's game records, unsorted.
	FetchSeasonGameLogs(ctx context.Context, season string) ([]models.GameRecord, error)
}

// ScheduleSource provides today's slate of games.
// Essential: a fetch failure after retries aborts the run.
type ScheduleSource interface {
	FetchTodaysGames(ctx context.Context) ([]ScoreboardGame, error)
}

// InjurySource provides the current raw injury report.
// Non-essential: a failure degrades to predictions without injury adjustment.
type InjurySource interface {
	FetchInjuries(ctx context.Context) ([]models.InjuryEntry, error)
}

// PlayerStatsSource provides per-player season averages for injury
// importance weighting. Non-essential.
type PlayerStatsSource interface {
	FetchPlayerAverages(ctx context.Context, season string) ([]models.PlayerAverage, error)
}

// ScoreboardGame is one game on the live scoreboard, before rest days are
// computed against team timelines.
type ScoreboardGame struct {
	HomeTeam string
	AwayTeam string
	HomeAbbr string
	AwayAbbr string
	Status   string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CurrentSeason returns the season string for a given instant, e.g.
// "2025-26". Seasons starting in October span two calendar years.
func CurrentSeason(now time.Time) string {
	startYear := now.Year()
	if now.Month() < time.October {
		startYear--
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}
