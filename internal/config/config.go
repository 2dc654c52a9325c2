// Package config provides configuration management for the prediction pipeline.
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Features   FeaturesConfig   `mapstructure:"features" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Injury     InjuryConfig     `mapstructure:"injury" validate:"required"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	Sources    SourcesConfig    `mapstructure:"sources" validate:"required"`
	Output     OutputConfig     `mapstructure:"output" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// FeaturesConfig controls the causal feature engineering pass.
type FeaturesConfig struct {
	RollingWindow    int `mapstructure:"rolling_window" validate:"required,gt=0"`
	RecentFormWindow int `mapstructure:"recent_form_window" validate:"required,gt=0"`
}

// ModelConfig carries the boosted-tree hyperparameters and the training
// protocol settings.
type ModelConfig struct {
	Estimators      int     `mapstructure:"estimators" validate:"required,gt=0"`
	MaxDepth        int     `mapstructure:"max_depth" validate:"required,gt=0"`
	LearningRate    float64 `mapstructure:"learning_rate" validate:"required,gt=0,lte=1"`
	Subsample       float64 `mapstructure:"subsample" validate:"required,gt=0,lte=1"`
	ColsampleByTree float64 `mapstructure:"colsample_bytree" validate:"required,gt=0,lte=1"`
	TrainSplit      float64 `mapstructure:"train_split" validate:"required,gt=0,lt=1"`
	MinTrainingRows int     `mapstructure:"min_training_rows" validate:"required,gt=0"`
	Seed            int64   `mapstructure:"seed"`
}

// InjuryConfig controls injury scoring and the probability adjustment.
type InjuryConfig struct {
	AdjustmentCoefficient float64            `mapstructure:"adjustment_coefficient" validate:"required,gt=0"`
	BaselineImportance    float64            `mapstructure:"baseline_importance" validate:"required,gt=0"`
	DefaultImportance     float64            `mapstructure:"default_importance" validate:"required,gt=0"`
	DefaultStatusWeight   float64            `mapstructure:"default_status_weight" validate:"required,gte=0,lte=1"`
	StatusWeights         map[string]float64 `mapstructure:"status_weights" validate:"required,min=1"`
}

// PredictionConfig bounds the adjusted probability.
type PredictionConfig struct {
	MinProbability float64 `mapstructure:"min_probability" validate:"gte=0,lte=1"`
	MaxProbability float64 `mapstructure:"max_probability" validate:"gte=0,lte=1"`
}

// SourcesConfig represents the external data source endpoints and the
// shared HTTP client behavior.
type SourcesConfig struct {
	StatsBaseURL    string  `mapstructure:"stats_base_url" validate:"required,url"`
	ScoreboardURL   string  `mapstructure:"scoreboard_url" validate:"required,url"`
	InjuriesURL     string  `mapstructure:"injuries_url" validate:"required,url"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"required,gte=0"`
	RetryWaitMs     int     `mapstructure:"retry_wait_ms" validate:"required,gt=0"`
	RetryWaitMaxMs  int     `mapstructure:"retry_wait_max_ms" validate:"required,gt=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CacheTTLMinutes int     `mapstructure:"cache_ttl_minutes" validate:"required,gt=0"`
}

// Timeout returns the per-request timeout as a duration.
func (s SourcesConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// CacheTTL returns the player-averages cache TTL as a duration.
func (s SourcesConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLMinutes) * time.Minute
}

// OutputConfig represents the report sink.
type OutputConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// DatabaseConfig represents the optional Postgres sink for prediction runs.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// ScheduleConfig represents the optional cron-driven daily run.
type ScheduleConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
