package payease

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter or histogram in the in-process metrics
// system.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts failed logins.
	MetricLoginFailure
	// MetricRegisterSuccess counts successful registrations.
	MetricRegisterSuccess
	// MetricRegisterFailure counts failed registrations.
	MetricRegisterFailure
	// MetricLogout counts logout operations.
	MetricLogout
	// MetricSessionRestored counts sessions reconstructed from durable state.
	MetricSessionRestored
	// MetricSessionExpired counts sessions dropped for a stale token marker.
	MetricSessionExpired
	// MetricViewDenied counts protected-view entries refused by the router.
	MetricViewDenied
	// MetricTransferValidationFailed counts transfers rejected before any
	// network call.
	MetricTransferValidationFailed
	// MetricTransferSettled counts server-confirmed transfers.
	MetricTransferSettled
	// MetricTransferRejected counts transfers the backend or transport rejected.
	MetricTransferRejected
	// MetricTransferDiscarded counts responses dropped because the workflow
	// was torn down while the request was in flight.
	MetricTransferDiscarded
	// MetricHydrateSuccess counts successful current-user fetches.
	MetricHydrateSuccess
	// MetricHydrateFailure counts failed current-user fetches.
	MetricHydrateFailure
	// MetricRosterLoadSuccess counts successful roster loads.
	MetricRosterLoadSuccess
	// MetricRosterLoadFailure counts failed roster loads.
	MetricRosterLoadFailure
	// MetricRosterDeleteSuccess counts confirmed roster deletions.
	MetricRosterDeleteSuccess
	// MetricRosterDeleteFailure counts failed roster deletions.
	MetricRosterDeleteFailure
	// MetricSubmitLatency is the transfer-submission latency histogram.
	MetricSubmitLatency

	metricIDCount = int(MetricSubmitLatency) + 1
)

// submitLatencyBounds are the histogram bucket upper bounds; the last bucket
// is +Inf.
var submitLatencyBounds = [histogramBuckets - 1]time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
}

const histogramBuckets = 8

// paddedCounter keeps each hot counter on its own cache line.
type paddedCounter struct {
	value atomic.Uint64
	_     [56]byte
}

// Metrics holds atomic counters and an optional submit-latency histogram.
// All write-path operations are allocation-free; a nil or disabled Metrics
// turns every operation into a no-op.
type Metrics struct {
	enabled        bool
	latencyEnabled bool
	counters       [metricIDCount]paddedCounter
	latency        [histogramBuckets]paddedCounter
}

// NewMetrics creates a [Metrics] instance configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:        cfg.Enabled,
		latencyEnabled: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Inc adds one to the counter identified by id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || int(id) >= metricIDCount {
		return
	}
	m.counters[id].value.Add(1)
}

// ObserveSubmitLatency records one transfer-submission duration.
func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m == nil || !m.latencyEnabled {
		return
	}
	for i, bound := range submitLatencyBounds {
		if d <= bound {
			m.latency[i].value.Add(1)
			return
		}
	}
	m.latency[histogramBuckets-1].value.Add(1)
}

// MetricsSnapshot is a point-in-time deep copy of all metrics. Histogram
// buckets are non-cumulative; exporters derive cumulative views.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// Snapshot copies every counter and histogram bucket.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, metricIDCount),
		Histograms: make(map[MetricID][]uint64, 1),
	}
	if m == nil || !m.enabled {
		return snap
	}

	for id := 0; id < metricIDCount; id++ {
		if MetricID(id) == MetricSubmitLatency {
			continue
		}
		snap.Counters[MetricID(id)] = m.counters[id].value.Load()
	}

	if m.latencyEnabled {
		buckets := make([]uint64, histogramBuckets)
		for i := range m.latency {
			buckets[i] = m.latency[i].value.Load()
		}
		snap.Histograms[MetricSubmitLatency] = buckets
	}

	return snap
}
