// Package metrics provides Prometheus metrics for the byline service.
package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace       string
	subsystem       string
	latencyBuckets  []float64
	refreshInterval time.Duration
	constLabels     map[string]string
	registry        prometheus.Registerer

	// Identity resolution
	resolutionPasses   prometheus.Counter
	matchLinks         *prometheus.CounterVec
	unresolvedRecords  prometheus.Counter
	matchConfidence    prometheus.Histogram
	resolutionLatency  prometheus.Histogram
	integrationMatched prometheus.Gauge

	// Aggregation
	periodsApplied    prometheus.Counter
	periodsDuplicate  prometheus.Counter
	periodsRejected   prometheus.Counter
	identitiesTracked prometheus.Gauge
	ledgerLatency     prometheus.Histogram
	rebuilds          prometheus.Counter
	rebuildLatency    prometheus.Histogram

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount   prometheus.Gauge
	workerActive  prometheus.Gauge
	workerLatency prometheus.Histogram
	workerErrors  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Sources
	sourceRequests *prometheus.CounterVec
	sourceLatency  *prometheus.HistogramVec
	sourceRecords  *prometheus.GaugeVec
	collectionRuns *prometheus.CounterVec

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var (
	// customRegistry keeps Go runtime collectors out of the exposition.
	customRegistry = prometheus.NewRegistry()
	globalManager  = NewManager(WithPrometheusRegistry(customRegistry))
)

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "byline",
		subsystem:       "",
		latencyBuckets:  prometheus.ExponentialBuckets(0.1, 4, 10),
		refreshInterval: defaultRefreshInterval,
		constLabels:     map[string]string{},
		registry:        prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// RefreshInterval is how often gauge updaters should sample.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.latencyBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.resolutionPasses = m.counter("resolution_passes_total", "Total number of identity resolution passes")
	m.matchLinks = m.counterVec("match_links_total", "Match links produced, by strategy", "strategy")
	m.unresolvedRecords = m.counter("unresolved_records_total", "Primary records left unmatched after a pass")
	m.matchConfidence = m.histogram("match_confidence", "Confidence of produced match links",
		[]float64{0.75, 0.8, 0.85, 0.9, 0.95, 0.99, 1})
	m.resolutionLatency = m.histogram("resolution_latency_ms", "Resolution pass latency in milliseconds", m.latencyBuckets)
	m.integrationMatched = m.gauge("integration_match_rate_percent", "Match rate of the last integration run")

	m.periodsApplied = m.counter("periods_applied_total", "Period performances applied to season totals")
	m.periodsDuplicate = m.counter("periods_duplicate_total", "Period submissions rejected as already applied")
	m.periodsRejected = m.counter("periods_rejected_total", "Period submissions rejected by validation")
	m.identitiesTracked = m.gauge("identities_tracked", "Identities with season totals")
	m.ledgerLatency = m.histogram("ledger_update_latency_ms", "Season totals update latency in milliseconds", m.latencyBuckets)
	m.rebuilds = m.counter("totals_rebuilds_total", "Full season totals rebuilds")
	m.rebuildLatency = m.histogram("totals_rebuild_latency_ms", "Season totals rebuild latency in milliseconds", m.latencyBuckets)

	m.queueSize = m.gauge("queue_size", "Current number of queued periods")
	m.queueCapacity = m.gauge("queue_capacity", "Queue capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Periods enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Periods dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Enqueue attempts rejected by backpressure")

	m.workerCount = m.gauge("worker_count", "Configured workers")
	m.workerActive = m.gauge("worker_active", "Workers currently processing")
	m.workerLatency = m.histogram("worker_processing_latency_ms", "Per-period processing latency in milliseconds", m.latencyBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Worker processing errors")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_ms", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")

	m.sourceRequests = m.counterVec("source_requests_total", "Upstream source requests", "source", "outcome")
	m.sourceLatency = m.histogramVec("source_request_latency_ms", "Upstream source latency in milliseconds", "source")
	m.sourceRecords = m.gaugeVec("source_records", "Records returned by the last fetch", "source")
	m.collectionRuns = m.counterVec("collection_runs_total", "Collection runs", "outcome")

	m.storeLatency = m.histogramVec("store_latency_ms", "Store operation latency in milliseconds", "op")
	m.storeErrors = m.counterVec("store_errors_total", "Store operation errors", "op")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
}

// Resolution.

func RecordResolution(links map[string]int, unresolved int, latencyMs float64) {
	globalManager.resolutionPasses.Inc()
	for strategy, n := range links {
		globalManager.matchLinks.WithLabelValues(strategy).Add(float64(n))
	}
	globalManager.unresolvedRecords.Add(float64(unresolved))
	globalManager.resolutionLatency.Observe(latencyMs)
}

func RecordMatchConfidence(confidence float64) {
	globalManager.matchConfidence.Observe(confidence)
}

func UpdateIntegrationMatchRate(rate float64) {
	globalManager.integrationMatched.Set(rate)
}

// Aggregation.

func RecordPeriodApplied(latencyMs float64) {
	globalManager.periodsApplied.Inc()
	globalManager.ledgerLatency.Observe(latencyMs)
}

func RecordPeriodDuplicate() {
	globalManager.periodsDuplicate.Inc()
}

func RecordPeriodRejected() {
	globalManager.periodsRejected.Inc()
}

func UpdateIdentitiesTracked(count int) {
	globalManager.identitiesTracked.Set(float64(count))
}

func RecordRebuild(latencyMs float64) {
	globalManager.rebuilds.Inc()
	globalManager.rebuildLatency.Observe(latencyMs)
}

// Queue.

func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Workers.

func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

func IncWorkerActive() {
	globalManager.workerActive.Inc()
}

func DecWorkerActive() {
	globalManager.workerActive.Dec()
}

func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP.

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Sources.

func RecordSourceRequest(source, outcome string, latencyMs float64) {
	globalManager.sourceRequests.WithLabelValues(source, outcome).Inc()
	globalManager.sourceLatency.WithLabelValues(source).Observe(latencyMs)
}

func UpdateSourceRecords(source string, count int) {
	globalManager.sourceRecords.WithLabelValues(source).Set(float64(count))
}

func RecordCollectionRun(outcome string) {
	globalManager.collectionRuns.WithLabelValues(outcome).Inc()
}

// Store.

func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// Errors.

func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System.

func UpdateSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.HeapInuse))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// SinceMs returns the milliseconds elapsed since start.
func SinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// GetRegistry returns the registry backing the global metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Global returns the global manager.
func Global() *Manager {
	return globalManager
}
