// Package predictor combines the trained classifier with injury scores to
// produce final adjusted win probabilities for today's games.
package predictor

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/swish-predictor/internal/classifier"
	"github.com/yourusername/swish-predictor/internal/config"
	"github.com/yourusername/swish-predictor/internal/features"
	"github.com/yourusername/swish-predictor/internal/models"
)

// Engine produces prediction records for scheduled games.
type Engine struct {
	model     *classifier.BoostedTrees
	injuryCfg config.InjuryConfig
	predCfg   config.PredictionConfig
	logger    *logrus.Logger
}

// NewEngine creates a prediction engine around a fitted model.
func NewEngine(model *classifier.BoostedTrees, injuryCfg config.InjuryConfig, predCfg config.PredictionConfig, logger *logrus.Logger) *Engine {
	return &Engine{
		model:     model,
		injuryCfg: injuryCfg,
		predCfg:   predCfg,
		logger:    logger,
	}
}

// Predict builds one feature row per scheduled game from each team's most
// recent snapshot and the live rest days, then adjusts the raw model output
// by the injury differential. A game whose teams lack any history is
// skipped, never fatal; the remaining slate still gets predictions.
func (e *Engine) Predict(
	games []models.ScheduledGame,
	annotated map[string][]models.AnnotatedGame,
	injuryScores map[string]models.InjuryScore,
) []models.PredictionRecord {
	predictions := make([]models.PredictionRecord, 0, len(games))

	for _, game := range games {
		record, err := e.predictGame(game, annotated, injuryScores)
		if err != nil {
			e.logger.WithError(err).WithFields(logrus.Fields{
				"home": game.HomeTeam,
				"away": game.AwayTeam,
			}).Warn("Skipping game")
			continue
		}
		predictions = append(predictions, *record)
	}

	return predictions
}

func (e *Engine) predictGame(
	game models.ScheduledGame,
	annotated map[string][]models.AnnotatedGame,
	injuryScores map[string]models.InjuryScore,
) (*models.PredictionRecord, error) {
	homeHistory := annotated[game.HomeTeam]
	awayHistory := annotated[game.AwayTeam]
	if len(homeHistory) == 0 || len(awayHistory) == 0 {
		return nil, models.ErrNoSnapshot
	}

	h := homeHistory[len(homeHistory)-1].Snapshot
	a := awayHistory[len(awayHistory)-1].Snapshot

	// At prediction time the full season to date is fair game for the
	// head-to-head record, unlike training rows which stop before each game.
	h2hWins, h2hGames := features.HeadToHead(homeHistory, game.AwayTeam)

	row := models.MatchupRow{
		HomePtsAvg:       h.PtsAvg,
		HomeAstAvg:       h.AstAvg,
		HomeRebAvg:       h.RebAvg,
		HomeFGPct:        h.FGPct,
		HomeRecentWinPct: h.RecentWinPct,
		HomeWinStreak:    float64(h.WinStreak),
		HomeVenuePct:     h.HomeVenuePct,
		HomeOverallPct:   h.OverallPct,
		HomeDaysRest:     float64(game.HomeRest),
		HomeBackToBack:   boolToFloat(game.HomeRest == 0),
		HomeH2HWins:      float64(h2hWins),
		HomeH2HGames:     float64(h2hGames),
		AwayPtsAvg:       a.PtsAvg,
		AwayAstAvg:       a.AstAvg,
		AwayRebAvg:       a.RebAvg,
		AwayFGPct:        a.FGPct,
		AwayRecentWinPct: a.RecentWinPct,
		AwayWinStreak:    float64(a.WinStreak),
		AwayVenuePct:     a.RoadVenuePct,
		AwayOverallPct:   a.OverallPct,
		AwayDaysRest:     float64(game.AwayRest),
		AwayBackToBack:   boolToFloat(game.AwayRest == 0),
		RestDiff:         float64(game.HomeRest - game.AwayRest),
		WinPctDiff:       h.OverallPct - a.OverallPct,
		PtsDiff:          h.PtsAvg - a.PtsAvg,
	}

	rawProb := e.model.PredictProba(row.Features())

	homeInjury := injuryScores[game.HomeTeam]
	awayInjury := injuryScores[game.AwayTeam]

	// A more injured away side shifts probability toward the home team.
	adjustment := (awayInjury.Score - homeInjury.Score) * e.injuryCfg.AdjustmentCoefficient
	adjusted := clamp(rawProb+adjustment, e.predCfg.MinProbability, e.predCfg.MaxProbability)

	injuries := make([]models.GameInjury, 0, len(homeInjury.Details)+len(awayInjury.Details))
	injuries = append(injuries, sideInjuries(homeInjury.Details, game.HomeAbbr)...)
	injuries = append(injuries, sideInjuries(awayInjury.Details, game.AwayAbbr)...)

	return &models.PredictionRecord{
		HomeTeam:         game.HomeTeam,
		AwayTeam:         game.AwayTeam,
		HomeAbbr:         game.HomeAbbr,
		AwayAbbr:         game.AwayAbbr,
		HomeWinProb:      adjusted,
		AwayWinProb:      1 - adjusted,
		RawProb:          rawProb,
		InjuryAdjustment: adjustment,
		HomeInjuryScore:  homeInjury.Score,
		AwayInjuryScore:  awayInjury.Score,
		HomeRest:         game.HomeRest,
		AwayRest:         game.AwayRest,
		Status:           game.Status,
		Injuries:         injuries,
	}, nil
}

func sideInjuries(details []models.InjuryDetail, abbr string) []models.GameInjury {
	injuries := make([]models.GameInjury, 0, len(details))
	for _, d := range details {
		injuries = append(injuries, models.GameInjury{
			Player:     d.Player,
			Team:       abbr,
			Status:     d.Status,
			Importance: d.Importance,
			Impact:     d.Impact,
		})
	}
	return injuries
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
