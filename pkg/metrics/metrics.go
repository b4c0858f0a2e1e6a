// Package metrics provides Prometheus metrics for graph export and import
// runs: document and batch counters on the database side, node and edge
// counters on the graph side, and duration histograms for whole runs and
// individual batch flushes.
//
// # Basic Usage
//
//	// Count fetched documents
//	metrics.DocumentsFetched.WithLabelValues("accounts").Add(1000)
//
//	// Time a batch flush
//	timer := metrics.NewTimer("flush")
//	flush(batch)
//	metrics.BatchFlushDuration.WithLabelValues("accounts").Observe(timer.Stop().Seconds())
//
// # Metric Types
//
// Counter: Monotonically increasing values (e.g., total documents fetched)
// Histogram: Distribution of values (e.g., flush duration percentiles)
//
// All metrics are registered automatically via promauto and are safe for
// concurrent use.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsFetched tracks documents read from database collections.
	// Labels: collection
	//
	// Example:
	//	metrics.DocumentsFetched.WithLabelValues("transactions").Add(500)
	DocumentsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monograph_documents_fetched_total",
			Help: "Total number of documents fetched from collections",
		},
		[]string{"collection"},
	)

	// DocumentsInserted tracks documents written to database collections.
	// Labels: collection
	DocumentsInserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monograph_documents_inserted_total",
			Help: "Total number of documents inserted into collections",
		},
		[]string{"collection"},
	)

	// NodesLoaded tracks nodes added to in-memory graphs during export.
	// Labels: graph
	NodesLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monograph_nodes_loaded_total",
			Help: "Total number of nodes loaded into graphs",
		},
		[]string{"graph"},
	)

	// EdgesLoaded tracks edges added to in-memory graphs during export.
	// Labels: graph
	EdgesLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monograph_edges_loaded_total",
			Help: "Total number of edges loaded into graphs",
		},
		[]string{"graph"},
	)

	// EdgesSkipped tracks edges dropped during export, for example edges
	// referencing endpoints outside the exported collections.
	// Labels: graph
	EdgesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monograph_edges_skipped_total",
			Help: "Total number of edges skipped during export",
		},
		[]string{"graph"},
	)

	// BatchesFlushed tracks write batches flushed per collection.
	// Labels: collection
	BatchesFlushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monograph_batches_flushed_total",
			Help: "Total number of write batches flushed",
		},
		[]string{"collection"},
	)

	// BatchFlushDuration tracks the distribution of batch flush latencies.
	// Labels: collection
	//
	// Example:
	//	start := time.Now()
	//	flush(batch)
	//	metrics.BatchFlushDuration.WithLabelValues("accounts").
	//	    Observe(time.Since(start).Seconds())
	BatchFlushDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "monograph_batch_flush_duration_seconds",
			Help: "Batch flush duration in seconds",
			Buckets: []float64{
				0.005, // 5ms - small batches, local server
				0.01,  // 10ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.5,   // 500ms
				1,     // 1s - large batches
				5,     // 5s
				15,    // 15s - retried flushes
				60,    // 60s
			},
		},
		[]string{"collection"},
	)

	// ExportDuration tracks end-to-end export run durations.
	// Labels: graph
	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "monograph_export_duration_seconds",
			Help: "Graph export duration in seconds",
			Buckets: []float64{
				0.1, 0.5, 1, 5, 15, 60, 300, 600,
			},
		},
		[]string{"graph"},
	)

	// ImportDuration tracks end-to-end import run durations.
	// Labels: graph
	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "monograph_import_duration_seconds",
			Help: "Graph import duration in seconds",
			Buckets: []float64{
				0.1, 0.5, 1, 5, 15, 60, 300, 600,
			},
		},
		[]string{"graph"},
	)

	// ErrorsTotal tracks errors by type.
	// Labels: type (matches the errors package type names)
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monograph_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"},
	)
)

// RecordError increments the error counter for the given error type.
func RecordError(errType string) {
	ErrorsTotal.WithLabelValues(errType).Inc()
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
//
// Example:
//
//	timer := metrics.NewTimer("export")
//	runExport(cfg)
//	logger.Info("export finished", zap.Duration("duration", timer.Stop()))
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed duration since creation. The timer can be
// stopped multiple times, each returning the total elapsed time.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks documents per second over time windows.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu         sync.Mutex
	count      int64
	lastReset  time.Time
	collection string
}

// NewThroughputTracker creates a throughput tracker for one collection.
//
// Example:
//
//	tracker := metrics.NewThroughputTracker("transactions")
//	for _, doc := range docs {
//	    process(doc)
//	    tracker.Increment(1)
//	}
//	rate := tracker.GetAndReset()
func NewThroughputTracker(collection string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset:  time.Now(),
		collection: collection,
	}
}

// Increment adds n to the document count. Safe for concurrent use.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset calculates the current throughput in documents per second,
// resets the counter, and returns the calculated value.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	rate := float64(t.count) / elapsed
	t.count = 0
	t.lastReset = time.Now()
	return rate
}
