// Package config provides configuration management for the prediction pipeline.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME});
// missing file falls back to defaults plus environment overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix("SWISH")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal configuration into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers defaults for every field so a bare environment can
// still produce a runnable configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "swish-predictor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("features.rolling_window", 3)
	v.SetDefault("features.recent_form_window", 5)

	v.SetDefault("model.estimators", 200)
	v.SetDefault("model.max_depth", 4)
	v.SetDefault("model.learning_rate", 0.05)
	v.SetDefault("model.subsample", 0.8)
	v.SetDefault("model.colsample_bytree", 0.8)
	v.SetDefault("model.train_split", 0.8)
	v.SetDefault("model.min_training_rows", 10)
	v.SetDefault("model.seed", 42)

	v.SetDefault("injury.adjustment_coefficient", 0.02)
	v.SetDefault("injury.baseline_importance", 15.0)
	v.SetDefault("injury.default_importance", 15.0)
	v.SetDefault("injury.default_status_weight", 0.3)
	v.SetDefault("injury.status_weights", DefaultStatusWeights())

	v.SetDefault("prediction.min_probability", 0.05)
	v.SetDefault("prediction.max_probability", 0.95)

	v.SetDefault("sources.stats_base_url", "https://stats.nba.com/stats")
	v.SetDefault("sources.scoreboard_url", "https://cdn.nba.com/static/json/liveData/scoreboard/todaysScoreboard_00.json")
	v.SetDefault("sources.injuries_url", "https://www.cbssports.com/nba/injuries/")
	v.SetDefault("sources.timeout_seconds", 30)
	v.SetDefault("sources.max_retries", 3)
	v.SetDefault("sources.retry_wait_ms", 500)
	v.SetDefault("sources.retry_wait_max_ms", 10000)
	v.SetDefault("sources.rate_limit", 0.5)
	v.SetDefault("sources.cache_ttl_minutes", 60)

	v.SetDefault("output.path", "data/predictions.json")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.cron", "0 12 * * *")
}
