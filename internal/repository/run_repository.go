// Package repository persists prediction runs to Postgres. The sink is
// optional; the pipeline's primary output is the JSON report.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/swish-predictor/internal/database"
	"github.com/yourusername/swish-predictor/internal/models"
)

// PredictionRun is one persisted pipeline run.
type PredictionRun struct {
	ID            uuid.UUID
	GeneratedAt   time.Time
	ModelAccuracy float64
	TotalMatchups int
	HasInjuries   bool
}

// RunRepository stores pipeline runs and their predictions.
type RunRepository interface {
	SaveRun(ctx context.Context, run *PredictionRun, predictions []models.PredictionRecord) error
}

// PostgresRunRepository implements RunRepository over pgx.
type PostgresRunRepository struct {
	db *database.DB
}

// NewPostgresRunRepository creates a Postgres-backed run repository.
func NewPostgresRunRepository(db *database.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

// SaveRun inserts the run header and its prediction rows in one transaction.
func (r *PostgresRunRepository) SaveRun(ctx context.Context, run *PredictionRun, predictions []models.PredictionRecord) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO prediction_runs (id, generated_at, model_accuracy, total_matchups, has_injuries)
		VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.GeneratedAt, run.ModelAccuracy, run.TotalMatchups, run.HasInjuries,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, p := range predictions {
		injuries, err := json.Marshal(p.Injuries)
		if err != nil {
			return fmt.Errorf("failed to marshal injuries: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO predictions (
				id, run_id, home_team, away_team, home_win_prob, raw_prob,
				injury_adjustment, home_injury_score, away_injury_score,
				home_rest, away_rest, injuries
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			uuid.New(), run.ID, p.HomeTeam, p.AwayTeam, p.HomeWinProb, p.RawProb,
			p.InjuryAdjustment, p.HomeInjuryScore, p.AwayInjuryScore,
			p.HomeRest, p.AwayRest, injuries,
		)
		if err != nil {
			return fmt.Errorf("failed to insert prediction: %w", err)
		}
	}

	return tx.Commit(ctx)
}
