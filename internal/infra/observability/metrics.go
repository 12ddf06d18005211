package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the ledger service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration      *prometheus.HistogramVec
	storeErrors          *prometheus.CounterVec
	cacheHits            *prometheus.CounterVec
	cacheMisses          *prometheus.CounterVec
	entriesGenerated     *prometheus.CounterVec
	entriesDeleted       *prometheus.CounterVec
	reconcileTransitions *prometheus.CounterVec
	reconcileFailures    prometheus.Counter
	timelineBuckets      prometheus.Histogram
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerd_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerd_store_errors_total",
				Help: "Total errors from the ledger store.",
			},
			[]string{"collection"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerd_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerd_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		entriesGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerd_planned_entries_generated_total",
				Help: "Planned entries materialized by the scheduler, by frequency.",
			},
			[]string{"frequency"},
		),
		entriesDeleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerd_planned_entries_deleted_total",
				Help: "Regeneration passes that removed open future entries, by trigger.",
			},
			[]string{"trigger"},
		),
		reconcileTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerd_reconcile_transitions_total",
				Help: "Planned entry status writes performed by the reconciler.",
			},
			[]string{"status"},
		),
		reconcileFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledgerd_reconcile_failures_total",
				Help: "Reconciliation attempts that failed and were swallowed.",
			},
		),
		timelineBuckets: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledgerd_timeline_buckets",
				Help:    "Number of buckets returned per timeline request.",
				Buckets: []float64{1, 7, 30, 60, 120, 365, 1000},
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments store errors for a collection.
func (m *Metrics) IncrStoreError(collection string) {
	m.storeErrors.WithLabelValues(collection).Inc()
}

// IncrCacheHit increments cache hits.
func (m *Metrics) IncrCacheHit(cacheName string) {
	m.cacheHits.WithLabelValues(cacheName).Inc()
}

// IncrCacheMiss increments cache misses.
func (m *Metrics) IncrCacheMiss(cacheName string) {
	m.cacheMisses.WithLabelValues(cacheName).Inc()
}

// IncrEntriesGenerated counts entries materialized by the scheduler.
func (m *Metrics) IncrEntriesGenerated(frequency string, n int) {
	m.entriesGenerated.WithLabelValues(frequency).Add(float64(n))
}

// IncrEntriesDeleted counts a cleanup pass of open future entries.
func (m *Metrics) IncrEntriesDeleted(trigger string) {
	m.entriesDeleted.WithLabelValues(trigger).Inc()
}

// IncrReconcileTransition counts a status write-back.
func (m *Metrics) IncrReconcileTransition(status string) {
	m.reconcileTransitions.WithLabelValues(status).Inc()
}

// IncrReconcileFailure counts a swallowed reconciliation error.
func (m *Metrics) IncrReconcileFailure() {
	m.reconcileFailures.Inc()
}

// ObserveTimelineBuckets records the size of a timeline response.
func (m *Metrics) ObserveTimelineBuckets(n int) {
	m.timelineBuckets.Observe(float64(n))
}

// CoreSnapshot is the operational view exposed on /v1/metrics/core.
type CoreSnapshot struct {
	EntriesGenerated     float64            `json:"entries_generated_total"`
	EntriesDeleted       float64            `json:"entries_deleted_total"`
	ReconcileTransitions map[string]float64 `json:"reconcile_transitions"`
	ReconcileFailures    float64            `json:"reconcile_failures_total"`
	CacheHitRate         float64            `json:"cache_hit_rate"`
}

// GetCoreSnapshot extracts current counter values for the ops endpoint.
func (m *Metrics) GetCoreSnapshot() CoreSnapshot {
	generated := float64(0)
	for _, freq := range []string{"monthly", "weekly", "biweekly", "other"} {
		generated += getCounterValue(m.entriesGenerated, freq)
	}
	deleted := getCounterValue(m.entriesDeleted, "regenerate") +
		getCounterValue(m.entriesDeleted, "deactivate")

	transitions := make(map[string]float64)
	for _, status := range []string{"planned", "partially_covered", "covered", "overdue"} {
		transitions[status] = getCounterValue(m.reconcileTransitions, status)
	}

	hits := getCounterValue(m.cacheHits, "timeline")
	misses := getCounterValue(m.cacheMisses, "timeline")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return CoreSnapshot{
		EntriesGenerated:     generated,
		EntriesDeleted:       deleted,
		ReconcileTransitions: transitions,
		ReconcileFailures:    getSingleCounterValue(m.reconcileFailures),
		CacheHitRate:         hitRate,
	}
}

// getCounterValue extracts the current value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

func getSingleCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
