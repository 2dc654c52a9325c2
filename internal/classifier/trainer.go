package classifier

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/swish-predictor/internal/config"
	"github.com/yourusername/swish-predictor/internal/models"
)

// Trainer fits the production model from the matchup table.
type Trainer struct {
	cfg    config.ModelConfig
	logger *logrus.Logger
}

// NewTrainer creates a trainer.
func NewTrainer(cfg config.ModelConfig, logger *logrus.Logger) *Trainer {
	return &Trainer{cfg: cfg, logger: logger}
}

// TrainResult holds the fitted model and its quality signal.
type TrainResult struct {
	Model        *BoostedTrees
	Accuracy     float64 // held-out accuracy on the chronologically latest slice
	TrainingRows int
	HoldoutRows  int
}

// Train splits the table chronologically (the table's existing order is by
// date), fits on the earlier slice, measures accuracy on the later slice,
// then refits the same configuration on the entire table for production
// inference. A random split would leak future games into training, so the
// split is always positional.
func (t *Trainer) Train(rows []models.MatchupRow) (*TrainResult, error) {
	if len(rows) < t.cfg.MinTrainingRows {
		return nil, fmt.Errorf("%w: have %d rows, need at least %d",
			models.ErrInsufficientData, len(rows), t.cfg.MinTrainingRows)
	}

	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i := range rows {
		x[i] = rows[i].Features()
		y[i] = rows[i].Label()
	}

	splitIdx := int(float64(len(rows)) * t.cfg.TrainSplit)
	if splitIdx == 0 || splitIdx == len(rows) {
		return nil, fmt.Errorf("%w: split of %d rows leaves an empty slice",
			models.ErrInsufficientData, len(rows))
	}

	t.logger.WithFields(logrus.Fields{
		"total_rows":   len(rows),
		"train_rows":   splitIdx,
		"holdout_rows": len(rows) - splitIdx,
		"estimators":   t.cfg.Estimators,
		"max_depth":    t.cfg.MaxDepth,
	}).Info("Training classifier")

	model := NewBoostedTrees(t.cfg)
	model.Fit(x[:splitIdx], y[:splitIdx])
	accuracy := model.Accuracy(x[splitIdx:], y[splitIdx:])

	t.logger.WithField("accuracy", fmt.Sprintf("%.2f%%", accuracy*100)).Info("Held-out accuracy")

	// The holdout exists only for honest measurement, not model selection:
	// refit on everything before serving predictions.
	model = NewBoostedTrees(t.cfg)
	model.Fit(x, y)

	return &TrainResult{
		Model:        model,
		Accuracy:     accuracy,
		TrainingRows: len(rows),
		HoldoutRows:  len(rows) - splitIdx,
	}, nil
}
