// Package metrics provides the centralized Prometheus registry for the
// prediction pipeline.
package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	FetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swish",
		Name:      "fetches_total",
		Help:      "Total external data fetches by source and outcome",
	}, []string{"source", "outcome"})
	RowsDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swish",
		Name:      "rows_dropped_total",
		Help:      "Rows dropped during feature or matchup construction by reason",
	}, []string{"reason"})
	PredictionsEmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "swish",
		Name:      "predictions_emitted_total",
		Help:      "Total prediction records emitted",
	})
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swish",
		Name:      "runs_total",
		Help:      "Pipeline runs by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	ModelAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "swish",
		Name:      "model_accuracy",
		Help:      "Held-out accuracy of the most recent training run",
	})
	TrainingRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "swish",
		Name:      "training_rows",
		Help:      "Matchup rows used in the most recent training run",
	})
	InjuryEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "swish",
		Name:      "injury_entries",
		Help:      "Injury entries scraped in the most recent run",
	})
)

// Histogram metrics
var (
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "swish",
		Name:      "training_duration_seconds",
		Help:      "Duration of classifier training in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "swish",
		Name:      "run_duration_seconds",
		Help:      "End-to-end pipeline run duration in seconds",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
)

// Registry returns the process-wide registry, registering all metrics on
// first use.
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			FetchesTotal,
			RowsDroppedTotal,
			PredictionsEmittedTotal,
			RunsTotal,
			ModelAccuracy,
			TrainingRows,
			InjuryEntries,
			TrainingDuration,
			RunDuration,
		)
	})
	return registry
}

// Serve exposes the registry and a liveness endpoint. Blocks until the
// server fails; callers run it in a goroutine.
func Serve(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}

// ObserveDuration records a duration on a histogram.
func ObserveDuration(h prometheus.Histogram, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}
