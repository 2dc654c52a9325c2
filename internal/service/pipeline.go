// Package service orchestrates the end-to-end prediction pipeline: fetch,
// feature derivation, training, injury scoring, and prediction. One run is
// a single synchronous pass; every run recomputes everything from scratch.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/swish-predictor/internal/classifier"
	"github.com/yourusername/swish-predictor/internal/config"
	"github.com/yourusername/swish-predictor/internal/datasource"
	"github.com/yourusername/swish-predictor/internal/features"
	"github.com/yourusername/swish-predictor/internal/injury"
	"github.com/yourusername/swish-predictor/internal/matchup"
	"github.com/yourusername/swish-predictor/internal/metrics"
	"github.com/yourusername/swish-predictor/internal/models"
	"github.com/yourusername/swish-predictor/internal/predictor"
	"github.com/yourusername/swish-predictor/internal/repository"
)

// Pipeline wires the pipeline stages together. External sources are
// interfaces so tests can substitute fixtures.
type Pipeline struct {
	cfg         *config.Config
	tables      config.Tables
	gameLogs    datasource.GameLogSource
	schedule    datasource.ScheduleSource
	injuries    datasource.InjurySource
	playerStats datasource.PlayerStatsSource
	runRepo     repository.RunRepository // nil when the database sink is disabled
	logger      *logrus.Logger
	now         func() time.Time
}

// NewPipeline creates a pipeline.
func NewPipeline(
	cfg *config.Config,
	tables config.Tables,
	gameLogs datasource.GameLogSource,
	schedule datasource.ScheduleSource,
	injuries datasource.InjurySource,
	playerStats datasource.PlayerStatsSource,
	runRepo repository.RunRepository,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		tables:      tables,
		gameLogs:    gameLogs,
		schedule:    schedule,
		injuries:    injuries,
		playerStats: playerStats,
		runRepo:     runRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock overrides the pipeline's notion of "now". Test hook.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// Run executes one full pass and returns the report for the output sink.
// Game-log and schedule failures are fatal; injury-side failures degrade to
// predictions without an injury adjustment.
func (p *Pipeline) Run(ctx context.Context) (*models.Report, error) {
	start := p.now()
	defer metrics.ObserveDuration(metrics.RunDuration, start)

	season := datasource.CurrentSeason(start)
	runID := uuid.New()
	p.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"season": season,
	}).Info("Starting prediction run")

	// Game logs are essential: nothing downstream works without them.
	records, err := p.gameLogs.FetchSeasonGameLogs(ctx, season)
	if err != nil {
		metrics.FetchesTotal.WithLabelValues("game_logs", "error").Inc()
		metrics.RunsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to fetch game logs: %w", err)
	}
	metrics.FetchesTotal.WithLabelValues("game_logs", "success").Inc()

	set := features.NewTimelineSet()
	for _, record := range records {
		set.Add(record)
	}
	set.SortAll()

	engine := features.NewEngine(p.tables, p.cfg.Features, p.logger)
	annotated := engine.AnnotateAll(set)

	rows := matchup.NewBuilder(p.logger).Build(annotated)
	metrics.TrainingRows.Set(float64(len(rows)))

	trainStart := time.Now()
	trainResult, err := classifier.NewTrainer(p.cfg.Model, p.logger).Train(rows)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("training failed: %w", err)
	}
	metrics.ObserveDuration(metrics.TrainingDuration, trainStart)
	metrics.ModelAccuracy.Set(trainResult.Accuracy)

	entries, averages := p.fetchInjuryData(ctx, season)
	metrics.InjuryEntries.Set(float64(len(entries)))

	resolver := injury.NewResolver(p.tables.TeamAliases, averages)
	scorer := injury.NewScorer(p.cfg.Injury, p.canonicalTeams(), p.logger)
	injuryScores := scorer.Score(entries, resolver)

	// Today's slate is essential too: without it there is nothing to predict.
	scheduled, err := p.schedule.FetchTodaysGames(ctx)
	if err != nil {
		metrics.FetchesTotal.WithLabelValues("schedule", "error").Inc()
		metrics.RunsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to fetch today's schedule: %w", err)
	}
	metrics.FetchesTotal.WithLabelValues("schedule", "success").Inc()

	games := p.withRestDays(scheduled, set, start)

	predEngine := predictor.NewEngine(trainResult.Model, p.cfg.Injury, p.cfg.Prediction, p.logger)
	predictions := predEngine.Predict(games, annotated, injuryScores)
	metrics.PredictionsEmittedTotal.Add(float64(len(predictions)))

	report := &models.Report{
		Date:          start.Format("2006-01-02"),
		GeneratedAt:   start,
		ModelAccuracy: fmt.Sprintf("%.2f%%", trainResult.Accuracy*100),
		TotalMatchups: trainResult.TrainingRows,
		HasInjuries:   len(entries) > 0,
		Games:         predictions,
	}

	if p.runRepo != nil {
		run := &repository.PredictionRun{
			ID:            runID,
			GeneratedAt:   start,
			ModelAccuracy: trainResult.Accuracy,
			TotalMatchups: trainResult.TrainingRows,
			HasInjuries:   report.HasInjuries,
		}
		if err := p.runRepo.SaveRun(ctx, run, predictions); err != nil {
			// The JSON report is the primary sink; a database failure is
			// not worth aborting an otherwise good run.
			p.logger.WithError(err).Warn("Failed to persist run to database")
		}
	}

	metrics.RunsTotal.WithLabelValues("success").Inc()
	p.logger.WithFields(logrus.Fields{
		"run_id":      runID,
		"games":       len(predictions),
		"accuracy":    report.ModelAccuracy,
		"elapsed_sec": time.Since(start).Seconds(),
	}).Info("Prediction run complete")

	return report, nil
}

// fetchInjuryData pulls the injury report and player averages. Both are
// non-essential; either failure degrades to the no-adjustment path.
func (p *Pipeline) fetchInjuryData(ctx context.Context, season string) ([]models.InjuryEntry, []models.PlayerAverage) {
	averages, err := p.playerStats.FetchPlayerAverages(ctx, season)
	if err != nil {
		metrics.FetchesTotal.WithLabelValues("player_stats", "error").Inc()
		p.logger.WithError(err).Warn("Could not fetch player averages, using default importance")
		averages = nil
	} else {
		metrics.FetchesTotal.WithLabelValues("player_stats", "success").Inc()
	}

	entries, err := p.injuries.FetchInjuries(ctx)
	if err != nil {
		metrics.FetchesTotal.WithLabelValues("injuries", "error").Inc()
		p.logger.WithError(err).Warn("Could not fetch injuries, predictions will carry no injury adjustment")
		entries = nil
	} else {
		metrics.FetchesTotal.WithLabelValues("injuries", "success").Inc()
	}

	return entries, averages
}

// withRestDays converts scoreboard games to scheduled games with rest days
// computed against each team's most recent game. Teams without history keep
// the one-day default; the prediction engine skips them anyway.
func (p *Pipeline) withRestDays(scheduled []datasource.ScoreboardGame, set *features.TimelineSet, now time.Time) []models.ScheduledGame {
	games := make([]models.ScheduledGame, 0, len(scheduled))
	for _, g := range scheduled {
		games = append(games, models.ScheduledGame{
			HomeTeam: g.HomeTeam,
			AwayTeam: g.AwayTeam,
			HomeAbbr: g.HomeAbbr,
			AwayAbbr: g.AwayAbbr,
			HomeRest: restDays(set.Get(g.HomeTeam), now),
			AwayRest: restDays(set.Get(g.AwayTeam), now),
			Status:   g.Status,
		})
	}
	return games
}

func restDays(tl *features.Timeline, now time.Time) int {
	if tl == nil || len(tl.Games) == 0 {
		return 1
	}
	last := tl.LastGameDate()
	rest := int(now.Truncate(24*time.Hour).Sub(last.Truncate(24*time.Hour)).Hours()/24) - 1
	if rest < 0 {
		rest = 0
	}
	return rest
}

func (p *Pipeline) canonicalTeams() []string {
	teams := make([]string, 0, len(p.tables.Abbreviations))
	for _, name := range p.tables.Abbreviations {
		teams = append(teams, name)
	}
	sort.Strings(teams)
	return teams
}
