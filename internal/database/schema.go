package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS prediction_runs (
		id UUID PRIMARY KEY,
		generated_at TIMESTAMPTZ NOT NULL,
		model_accuracy DOUBLE PRECISION NOT NULL,
		total_matchups INTEGER NOT NULL,
		has_injuries BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES prediction_runs(id) ON DELETE CASCADE,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		home_win_prob DOUBLE PRECISION NOT NULL,
		raw_prob DOUBLE PRECISION NOT NULL,
		injury_adjustment DOUBLE PRECISION NOT NULL,
		home_injury_score DOUBLE PRECISION NOT NULL,
		away_injury_score DOUBLE PRECISION NOT NULL,
		home_rest INTEGER NOT NULL,
		away_rest INTEGER NOT NULL,
		injuries JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_run_id ON predictions(run_id)`,
}

// EnsureSchema creates the prediction tables when they do not exist yet.
// Idempotent; safe to run on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
