package predictor

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/swish-predictor/internal/classifier"
	"github.com/yourusername/swish-predictor/internal/config"
	"github.com/yourusername/swish-predictor/internal/models"
)

func testPredCfg() config.PredictionConfig {
	return config.PredictionConfig{MinProbability: 0.05, MaxProbability: 0.95}
}

func testInjuryCfg() config.InjuryConfig {
	return config.InjuryConfig{
		AdjustmentCoefficient: 0.02,
		BaselineImportance:    15,
		DefaultImportance:     15,
		DefaultStatusWeight:   0.3,
		StatusWeights:         config.DefaultStatusWeights(),
	}
}

// trainedModel fits a tiny model whose raw output is near 0.5 everywhere:
// constant features and balanced labels.
func trainedModel(t *testing.T) *classifier.BoostedTrees {
	t.Helper()
	cfg := config.ModelConfig{
		Estimators: 5, MaxDepth: 2, LearningRate: 0.1,
		Subsample: 1.0, ColsampleByTree: 1.0,
		TrainSplit: 0.8, MinTrainingRows: 2, Seed: 42,
	}
	x := make([][]float64, 20)
	y := make([]float64, 20)
	for i := range x {
		x[i] = make([]float64, len(models.FeatureNames()))
		if i%2 == 0 {
			y[i] = 1
		}
	}
	model := classifier.NewBoostedTrees(cfg)
	model.Fit(x, y)
	return model
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewEngine(trainedModel(t), testInjuryCfg(), testPredCfg(), logger)
}

func history(team string, n int) []models.AnnotatedGame {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	games := make([]models.AnnotatedGame, n)
	for i := range games {
		games[i] = models.AnnotatedGame{
			Game: models.GameRecord{
				Team: team,
				Date: base.AddDate(0, 0, i*2),
				Win:  i%2 == 0,
			},
			Snapshot: models.FeatureSnapshot{
				PtsAvg: 110, AstAvg: 25, RebAvg: 44, FGPct: 0.47,
				RecentWinPct: 0.5, HomeVenuePct: 0.6, RoadVenuePct: 0.4,
				OverallPct: 0.5, DaysRest: 1,
			},
		}
	}
	return games
}

func scheduled(home, away string) models.ScheduledGame {
	return models.ScheduledGame{
		HomeTeam: home, AwayTeam: away,
		HomeAbbr: "HOM", AwayAbbr: "AWY",
		HomeRest: 1, AwayRest: 1,
		Status: "7:30 pm ET",
	}
}

func TestPredictProducesRecordPerGame(t *testing.T) {
	e := newTestEngine(t)
	annotated := map[string][]models.AnnotatedGame{
		"Boston Celtics":  history("Boston Celtics", 6),
		"New York Knicks": history("New York Knicks", 6),
	}

	records := e.Predict(
		[]models.ScheduledGame{scheduled("Boston Celtics", "New York Knicks")},
		annotated,
		map[string]models.InjuryScore{},
	)

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "Boston Celtics", r.HomeTeam)
	assert.InDelta(t, 1.0, r.HomeWinProb+r.AwayWinProb, 1e-9)
	assert.Zero(t, r.InjuryAdjustment)
	assert.Equal(t, r.RawProb, r.HomeWinProb, "no injuries means no adjustment")
	assert.GreaterOrEqual(t, r.HomeWinProb, 0.05)
	assert.LessOrEqual(t, r.HomeWinProb, 0.95)
}

func TestPredictSkipsGamesWithoutHistory(t *testing.T) {
	e := newTestEngine(t)
	annotated := map[string][]models.AnnotatedGame{
		"Boston Celtics": history("Boston Celtics", 6),
	}

	records := e.Predict(
		[]models.ScheduledGame{
			scheduled("Boston Celtics", "New York Knicks"), // away side missing
			scheduled("Expansion Team", "Boston Celtics"),  // home side missing
		},
		annotated,
		map[string]models.InjuryScore{},
	)

	assert.Empty(t, records)
}

func TestPredictAppliesInjuryAdjustment(t *testing.T) {
	e := newTestEngine(t)
	annotated := map[string][]models.AnnotatedGame{
		"Boston Celtics":  history("Boston Celtics", 6),
		"New York Knicks": history("New York Knicks", 6),
	}
	injuries := map[string]models.InjuryScore{
		"New York Knicks": {
			Score: 2.5,
			Details: []models.InjuryDetail{
				{Player: "Star Guard", Status: "Out", Importance: 37.5, Impact: 2.5},
			},
		},
	}

	records := e.Predict(
		[]models.ScheduledGame{scheduled("Boston Celtics", "New York Knicks")},
		annotated,
		injuries,
	)

	require.Len(t, records, 1)
	r := records[0]
	// Away team is hurt: probability shifts toward the home side.
	assert.InDelta(t, 2.5*0.02, r.InjuryAdjustment, 1e-9)
	assert.InDelta(t, r.RawProb+0.05, r.HomeWinProb, 1e-9)
	assert.InDelta(t, 2.5, r.AwayInjuryScore, 1e-9)
	assert.Zero(t, r.HomeInjuryScore)

	require.Len(t, r.Injuries, 1)
	assert.Equal(t, "AWY", r.Injuries[0].Team)
	assert.Equal(t, "Star Guard", r.Injuries[0].Player)
}

func TestPredictClampsProbability(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	annotated := map[string][]models.AnnotatedGame{
		"Boston Celtics":  history("Boston Celtics", 6),
		"New York Knicks": history("New York Knicks", 6),
	}

	tests := []struct {
		name      string
		homeScore float64
		awayScore float64
		want      float64
	}{
		{name: "upper clamp", homeScore: 0, awayScore: 100, want: 0.95},
		{name: "lower clamp", homeScore: 100, awayScore: 0, want: 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(trainedModel(t), testInjuryCfg(), testPredCfg(), logger)
			records := e.Predict(
				[]models.ScheduledGame{scheduled("Boston Celtics", "New York Knicks")},
				annotated,
				map[string]models.InjuryScore{
					"Boston Celtics":  {Score: tt.homeScore},
					"New York Knicks": {Score: tt.awayScore},
				},
			)
			require.Len(t, records, 1)
			assert.InDelta(t, tt.want, records[0].HomeWinProb, 1e-9)
		})
	}
}

func TestPredictBothTeamsOnBackToBack(t *testing.T) {
	e := newTestEngine(t)
	annotated := map[string][]models.AnnotatedGame{
		"Boston Celtics":  history("Boston Celtics", 6),
		"New York Knicks": history("New York Knicks", 6),
	}

	game := scheduled("Boston Celtics", "New York Knicks")
	game.HomeRest = 0
	game.AwayRest = 0

	records := e.Predict([]models.ScheduledGame{game}, annotated, map[string]models.InjuryScore{})
	require.Len(t, records, 1)
	assert.Zero(t, records[0].HomeRest)
	assert.Zero(t, records[0].AwayRest)
}
