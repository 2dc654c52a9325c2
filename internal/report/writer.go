// Package report serializes the prediction run into the document consumed
// by the presentation layer. All numeric rounding happens here, at the
// output boundary; the core pipeline keeps full float precision.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/swish-predictor/internal/models"
)

// Writer persists a report as indented JSON.
type Writer struct {
	path   string
	logger *logrus.Logger
}

// NewWriter creates a report writer targeting the given file path.
func NewWriter(path string, logger *logrus.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Write rounds the report's numeric fields and writes the document
// atomically: a failed run never leaves a partial file behind.
func (w *Writer) Write(r models.Report) error {
	rounded := Round(r)

	data, err := json.MarshalIndent(rounded, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".predictions-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move report into place: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"path":  w.path,
		"games": len(r.Games),
	}).Info("Wrote prediction report")
	return nil
}

// Round returns a copy of the report with presentation-precision numbers:
// probabilities to 3 places, scores and impacts to 2, importance to 1.
func Round(r models.Report) models.Report {
	games := make([]models.PredictionRecord, len(r.Games))
	for i, g := range r.Games {
		g.HomeWinProb = roundTo(g.HomeWinProb, 3)
		g.AwayWinProb = roundTo(g.AwayWinProb, 3)
		g.RawProb = roundTo(g.RawProb, 3)
		g.InjuryAdjustment = roundTo(g.InjuryAdjustment, 3)
		g.HomeInjuryScore = roundTo(g.HomeInjuryScore, 2)
		g.AwayInjuryScore = roundTo(g.AwayInjuryScore, 2)

		injuries := make([]models.GameInjury, len(g.Injuries))
		for j, inj := range g.Injuries {
			inj.Importance = roundTo(inj.Importance, 1)
			inj.Impact = roundTo(inj.Impact, 2)
			injuries[j] = inj
		}
		g.Injuries = injuries
		games[i] = g
	}
	r.Games = games
	return r
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
