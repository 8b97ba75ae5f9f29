// Package metrics exposes Prometheus metrics for CSF conversions.
//
// # Basic Usage
//
//	timer := metrics.NewTimer("convert")
//	stats, err := conversion.Convert(ctx, in, out, opts)
//	metrics.ObserveConversion("parallel", "parquet", timer.Stop(), err)
//
// All collectors are registered with the default registry on import.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecordsConverted counts CSF records written to columnar output.
	// Labels: mode (sequential/parallel), format
	RecordsConverted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csfs_records_converted_total",
			Help: "Total number of CSF records converted",
		},
		[]string{"mode", "format"},
	)

	// LinesTruncated counts body lines cut to the configured maximum length.
	LinesTruncated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csfs_lines_truncated_total",
			Help: "Total number of input lines truncated",
		},
		[]string{"mode"},
	)

	// RecordsSkipped counts records dropped by lenient parsing.
	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csfs_records_skipped_total",
			Help: "Total number of malformed CSF records skipped",
		},
		[]string{"mode"},
	)

	// ConversionDuration tracks whole-file conversion time.
	// Labels: mode, format, status (success/failure)
	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "csfs_conversion_duration_seconds",
			Help:    "Duration of CSF list conversions",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms .. ~45min
		},
		[]string{"mode", "format", "status"},
	)

	// ChunkParseDuration tracks the time one worker spends on one chunk.
	ChunkParseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "csfs_chunk_parse_duration_seconds",
			Help:    "Duration of parsing one chunk of CSF records",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
		[]string{"mode"},
	)

	// Throughput is the records/second of the last finished conversion.
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "csfs_throughput_records_per_second",
			Help: "Records per second of the last conversion",
		},
		[]string{"mode"},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveConversion records the duration and status of one conversion.
func ObserveConversion(mode, format string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	ConversionDuration.WithLabelValues(mode, format, status).Observe(d.Seconds())
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the timer label.
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. It may be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks records per second over a window.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64
	lastReset time.Time
	mode      string
}

// NewThroughputTracker creates a tracker reporting under mode.
func NewThroughputTracker(mode string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset: time.Now(),
		mode:      mode,
	}
}

// Increment adds n to the record count.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset computes records/second since the last reset, publishes it to
// the Throughput gauge and starts a new window.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}
	throughput := float64(t.count) / elapsed

	t.count = 0
	t.lastReset = time.Now()
	Throughput.WithLabelValues(t.mode).Set(throughput)

	return throughput
}
