package metric

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "subtrack"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Capture metrics
	CapturesTotal       prometheus.Counter
	SubnetsCaptured     prometheus.Counter
	SubnetFetchFailures prometheus.Counter
	SnapshotBytes       prometheus.Gauge
	CaptureDuration     prometheus.Histogram
	ChainRequestsTotal  *prometheus.CounterVec
	ChainRequestRetries prometheus.Counter

	// Analysis metrics
	AnalysisPairs    prometheus.Counter
	DeltaCacheHits   prometheus.Counter
	DeltaCacheMisses prometheus.Counter
}

// NewRegistry creates a registry with every subtrack metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		CapturesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captures_total",
			Help:      "Number of snapshot captures persisted.",
		}),
		SubnetsCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subnets_captured_total",
			Help:      "Number of subnets recorded into snapshots.",
		}),
		SubnetFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subnet_fetch_failures_total",
			Help:      "Number of subnets skipped because their membership could not be fetched.",
		}),
		SnapshotBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes",
			Help:      "Size of the last persisted snapshot file.",
		}),
		CaptureDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "capture_duration_seconds",
			Help:      "Wall time of a capture run.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		ChainRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_requests_total",
			Help:      "Chain API requests by endpoint and HTTP status.",
		}, []string{"endpoint", "status"}),
		ChainRequestRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_request_retries_total",
			Help:      "Chain API requests retried after a transient failure.",
		}),
		AnalysisPairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_pairs_total",
			Help:      "Consecutive snapshot pairs folded into an analysis.",
		}),
		DeltaCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delta_cache_hits_total",
			Help:      "Snapshot pair deltas served from the cache.",
		}),
		DeltaCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delta_cache_misses_total",
			Help:      "Snapshot pair deltas computed from scratch.",
		}),
	}

	r.registry.MustRegister(
		r.CapturesTotal,
		r.SubnetsCaptured,
		r.SubnetFetchFailures,
		r.SnapshotBytes,
		r.CaptureDuration,
		r.ChainRequestsTotal,
		r.ChainRequestRetries,
		r.AnalysisPairs,
		r.DeltaCacheHits,
		r.DeltaCacheMisses,
		collectors.NewGoCollector(),
	)
	return r
}

// Registerer exposes the underlying registerer for components that own
// their own collectors (the badger cache gauges).
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer exposes the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
// Parent directories are created as needed.
func (r *Registry) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create metrics dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
