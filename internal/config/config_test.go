package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "swish-predictor", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, 3, cfg.Features.RollingWindow)
	assert.Equal(t, 5, cfg.Features.RecentFormWindow)

	assert.Equal(t, 200, cfg.Model.Estimators)
	assert.Equal(t, 4, cfg.Model.MaxDepth)
	assert.InDelta(t, 0.05, cfg.Model.LearningRate, 1e-9)
	assert.InDelta(t, 0.8, cfg.Model.TrainSplit, 1e-9)

	assert.InDelta(t, 0.02, cfg.Injury.AdjustmentCoefficient, 1e-9)
	assert.InDelta(t, 15.0, cfg.Injury.BaselineImportance, 1e-9)
	assert.InDelta(t, 1.0, cfg.Injury.StatusWeights["Out"], 1e-9)

	assert.InDelta(t, 0.05, cfg.Prediction.MinProbability, 1e-9)
	assert.InDelta(t, 0.95, cfg.Prediction.MaxProbability, 1e-9)

	assert.Equal(t, 30*time.Second, cfg.Sources.Timeout())
	assert.Equal(t, time.Hour, cfg.Sources.CacheTTL())
	assert.Equal(t, "data/predictions.json", cfg.Output.Path)
	assert.False(t, cfg.Database.Enabled)

	require.NoError(t, Validate(cfg))
}

func TestLoadFileOverridesAndEnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "hunter2")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  environment: production
  log_level: warn
model:
  estimators: 50
database:
  enabled: true
  host: localhost
  port: 5432
  name: swish
  user: swish
  password: ${TEST_DB_PASSWORD}
  ssl_mode: require
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, 50, cfg.Model.Estimators)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	// Untouched sections keep their defaults.
	assert.Equal(t, 4, cfg.Model.MaxDepth)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown environment", mutate: func(c *Config) { c.App.Environment = "staging2" }},
		{name: "unknown log level", mutate: func(c *Config) { c.App.LogLevel = "loud" }},
		{name: "zero estimators", mutate: func(c *Config) { c.Model.Estimators = 0 }},
		{name: "train split of one", mutate: func(c *Config) { c.Model.TrainSplit = 1.0 }},
		{name: "min prob above max", mutate: func(c *Config) {
			c.Prediction.MinProbability = 0.9
			c.Prediction.MaxProbability = 0.1
		}},
		{name: "status weight above one", mutate: func(c *Config) { c.Injury.StatusWeights["Out"] = 1.5 }},
		{name: "database enabled without host", mutate: func(c *Config) { c.Database.Enabled = true }},
		{name: "bad url", mutate: func(c *Config) { c.Sources.StatsBaseURL = "not a url" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestDefaultTables(t *testing.T) {
	tables := DefaultTables()

	assert.Len(t, tables.Abbreviations, 30)
	assert.Equal(t, "Boston Celtics", tables.Abbreviations["BOS"])

	// Identity aliases plus the two L.A. spellings.
	assert.Len(t, tables.TeamAliases, 32)
	assert.Equal(t, "Los Angeles Lakers", tables.TeamAliases["L.A. Lakers"])
	assert.Equal(t, "Los Angeles Clippers", tables.TeamAliases["L.A. Clippers"])
	assert.Equal(t, "Boston Celtics", tables.TeamAliases["Boston Celtics"])

	weights := DefaultStatusWeights()
	assert.Len(t, weights, 7)
	assert.InDelta(t, 1.0, weights["Out For Season"], 1e-9)
	assert.InDelta(t, 0.1, weights["Probable"], 1e-9)
}
