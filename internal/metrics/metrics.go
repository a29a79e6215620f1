// Package metrics provides Prometheus metrics for the dataset
// preparation pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	// Line metrics
	LinesRead    *prometheus.CounterVec
	LinesWritten *prometheus.CounterVec
	LinesDropped *prometheus.CounterVec

	// Shuffle metrics
	ChunksWritten   *prometheus.CounterVec
	BucketsFlushed  *prometheus.CounterVec
	ShuffleDuration *prometheus.HistogramVec

	// Fetch metrics
	BytesDownloaded *prometheus.CounterVec
	FetchErrors     *prometheus.CounterVec

	// Error metrics
	ShuffleErrors *prometheus.CounterVec
}

// Config holds metrics configuration.
type Config struct {
	Enabled bool
	Address string // Address for metrics HTTP server (e.g., ":9090")
}

var defaultMetrics *Metrics

// Init initializes the metrics package with global metrics.
// Call this once at startup.
func Init(namespace string) *Metrics {
	if namespace == "" {
		namespace = "corpus_shuffle"
	}

	m := &Metrics{
		LinesRead: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_read_total",
				Help:      "Total number of corpus lines consumed",
			},
			[]string{"dataset"},
		),
		LinesWritten: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_written_total",
				Help:      "Total number of shuffled lines written",
			},
			[]string{"dataset"},
		),
		LinesDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_dropped_total",
				Help:      "Total number of lines dropped by the word-count filter",
			},
			[]string{"dataset"},
		),
		ChunksWritten: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chunks_written_total",
				Help:      "Total number of chunk files staged to disk",
			},
			[]string{"dataset"},
		),
		BucketsFlushed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "buckets_flushed_total",
				Help:      "Total number of full shuffle buckets flushed",
			},
			[]string{"dataset"},
		),
		ShuffleDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "shuffle_duration_seconds",
				Help:      "Time to shuffle a dataset end to end",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // 0.1s to ~27m
			},
			[]string{"dataset", "mode"},
		),
		BytesDownloaded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_downloaded_total",
				Help:      "Total bytes downloaded from corpus sources",
			},
			[]string{"scheme"},
		),
		FetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_errors_total",
				Help:      "Total number of corpus download errors",
			},
			[]string{"scheme"},
		),
		ShuffleErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shuffle_errors_total",
				Help:      "Total number of failed shuffle runs",
			},
			[]string{"dataset", "mode"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the global metrics instance.
// Returns nil if Init has not been called.
func Get() *Metrics {
	return defaultMetrics
}

// StartServer starts an HTTP server for Prometheus metrics scraping.
// Blocks until the server exits.
func StartServer(address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return http.ListenAndServe(address, mux)
}
