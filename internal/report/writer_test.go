package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/swish-predictor/internal/models"
)

func sampleReport() models.Report {
	return models.Report{
		Date:          "2025-01-15",
		GeneratedAt:   time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
		ModelAccuracy: "61.54%",
		TotalMatchups: 412,
		HasInjuries:   true,
		Games: []models.PredictionRecord{
			{
				HomeTeam:         "Boston Celtics",
				AwayTeam:         "New York Knicks",
				HomeAbbr:         "BOS",
				AwayAbbr:         "NYK",
				HomeWinProb:      0.6789123,
				AwayWinProb:      0.3210877,
				RawProb:          0.6489123,
				InjuryAdjustment: 0.0299999,
				HomeInjuryScore:  0.123456,
				AwayInjuryScore:  1.623456,
				HomeRest:         2,
				AwayRest:         0,
				Status:           "7:30 pm ET",
				Injuries: []models.GameInjury{
					{Player: "Star Guard", Team: "NYK", Status: "Out", Importance: 37.56, Impact: 2.504},
				},
			},
		},
	}
}

func TestRound(t *testing.T) {
	rounded := Round(sampleReport())
	g := rounded.Games[0]

	assert.InDelta(t, 0.679, g.HomeWinProb, 1e-12)
	assert.InDelta(t, 0.321, g.AwayWinProb, 1e-12)
	assert.InDelta(t, 0.649, g.RawProb, 1e-12)
	assert.InDelta(t, 0.03, g.InjuryAdjustment, 1e-12)
	assert.InDelta(t, 0.12, g.HomeInjuryScore, 1e-12)
	assert.InDelta(t, 1.62, g.AwayInjuryScore, 1e-12)
	assert.InDelta(t, 37.6, g.Injuries[0].Importance, 1e-12)
	assert.InDelta(t, 2.5, g.Injuries[0].Impact, 1e-12)
}

func TestRoundDoesNotMutateInput(t *testing.T) {
	original := sampleReport()
	_ = Round(original)
	assert.InDelta(t, 0.6789123, original.Games[0].HomeWinProb, 1e-12)
	assert.InDelta(t, 37.56, original.Games[0].Injuries[0].Importance, 1e-12)
}

func TestWriteProducesValidJSON(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	path := filepath.Join(t.TempDir(), "out", "predictions.json")
	w := NewWriter(path, logger)

	require.NoError(t, w.Write(sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got models.Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "2025-01-15", got.Date)
	assert.Equal(t, "61.54%", got.ModelAccuracy)
	assert.Equal(t, 412, got.TotalMatchups)
	require.Len(t, got.Games, 1)
	assert.Equal(t, "Boston Celtics", got.Games[0].HomeTeam)
	assert.InDelta(t, 0.679, got.Games[0].HomeWinProb, 1e-12)

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteOverwritesExistingReport(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	path := filepath.Join(t.TempDir(), "predictions.json")
	w := NewWriter(path, logger)

	first := sampleReport()
	require.NoError(t, w.Write(first))

	second := sampleReport()
	second.Date = "2025-01-16"
	second.Games = nil
	require.NoError(t, w.Write(second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got models.Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "2025-01-16", got.Date)
	assert.Empty(t, got.Games)
}
