// Package main provides the entry point for the prediction service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/swish-predictor/internal/config"
	"github.com/yourusername/swish-predictor/internal/database"
	"github.com/yourusername/swish-predictor/internal/datasource"
	"github.com/yourusername/swish-predictor/internal/logger"
	"github.com/yourusername/swish-predictor/internal/metrics"
	"github.com/yourusername/swish-predictor/internal/report"
	"github.com/yourusername/swish-predictor/internal/repository"
	"github.com/yourusername/swish-predictor/internal/scheduler"
	"github.com/yourusername/swish-predictor/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	daemonMode bool
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	pipeline   *service.Pipeline
	writer     *report.Writer
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVarP(&daemonMode, "daemon", "d", false, "Run on the configured cron schedule instead of once")
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Generate win probability predictions for today's games",
	Long:  `Fetches season game logs, trains the outcome classifier, scores current injuries, and writes win probability predictions for today's slate.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		defer closeDependencies()
		if daemonMode || cfg.Schedule.Enabled {
			runScheduled()
			return
		}
		runOnce()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("predict %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(context.Background(), cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.IsProduction())
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Swish predictor starting")

	tables := config.DefaultTables()
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfigFromSources(cfg.Sources), appLog)

	statsClient := datasource.NewStatsClient(httpClient, cfg.Sources.StatsBaseURL, cfg.Sources.CacheTTL(), appLog)
	scoreboardClient := datasource.NewScoreboardClient(httpClient, cfg.Sources.ScoreboardURL, appLog)
	injuryClient := datasource.NewInjuryClient(httpClient, cfg.Sources.InjuriesURL, appLog)

	var runRepo repository.RunRepository
	if cfg.Database.Enabled {
		var err error
		db, err = database.New(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to ensure database schema: %w", err)
		}
		runRepo = repository.NewPostgresRunRepository(db)
		appLog.Info("Database connection established")
	}

	pipeline = service.NewPipeline(
		cfg,
		tables,
		statsClient,
		scoreboardClient,
		injuryClient,
		statsClient,
		runRepo,
		appLog,
	)
	writer = report.NewWriter(cfg.Output.Path, appLog)

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
				appLog.WithError(err).Error("Metrics server stopped")
			}
		}()
		appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server started")
	}

	return nil
}

func closeDependencies() {
	if db != nil {
		db.Close()
	}
}

func runOnce() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		appLog.WithField("signal", sig).Info("Shutdown signal received")
		cancel()
	}()

	r, err := pipeline.Run(ctx)
	if err != nil {
		appLog.WithError(err).Error("Prediction run failed")
		os.Exit(1)
	}

	if err := writer.Write(*r); err != nil {
		appLog.WithError(err).Error("Failed to write report")
		os.Exit(1)
	}

	fmt.Println("\n=== Prediction Run Report ===")
	fmt.Printf("Date: %s\n", r.Date)
	fmt.Printf("Model Accuracy: %s\n", r.ModelAccuracy)
	fmt.Printf("Training Matchups: %d\n", r.TotalMatchups)
	fmt.Printf("Injury Data: %v\n", r.HasInjuries)
	fmt.Printf("\nGames (%d):\n", len(r.Games))
	for _, g := range r.Games {
		fmt.Printf("  %s @ %s: home %.1f%%\n", g.AwayTeam, g.HomeTeam, g.HomeWinProb*100)
	}
}

func runScheduled() {
	sched := scheduler.NewScheduler(pipeline, writer, appLog)
	if err := sched.SchedulePredictionRun(cfg.Schedule.Cron); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule prediction run")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	appLog.WithFields(logrus.Fields{
		"cron":     cfg.Schedule.Cron,
		"next_run": sched.NextRun(),
	}).Info("Running in scheduled mode")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	appLog.Info("Swish predictor shut down")
}
