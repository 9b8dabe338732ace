// Package metrics provides Prometheus metrics for the herald watcher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the herald service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Sweep metrics - the polling/diff/notify cycle
	sweepsTotal   prometheus.Counter
	sweepSkipped  prometheus.Counter
	sweepFailures prometheus.Counter
	sweepDuration prometheus.Histogram
	lastSweepUnix prometheus.Gauge

	// Notification metrics
	scoreChanges         prometheus.Counter
	notificationsSent    prometheus.Counter
	notificationRetries  prometheus.Counter
	notificationsDropped prometheus.Counter
	questionsAnnounced   prometheus.Counter

	// Store metrics
	storeQueryDuration *prometheus.HistogramVec

	// Snapshot metrics
	snapshotUsers prometheus.Gauge
	snapshotTasks prometheus.Gauge

	// HTTP metrics for the debug surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "herald",
		subsystem:        "watch",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sweepsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweeps_total",
		Help:      "Total number of completed score sweeps",
	})

	m.sweepSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweeps_skipped_total",
		Help:      "Total number of sweeps skipped by the watermark fast path",
	})

	m.sweepFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_failures_total",
		Help:      "Total number of sweep iterations that failed",
	})

	m.sweepDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_duration_milliseconds",
		Help:      "Histogram of sweep duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.lastSweepUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_sweep_timestamp_seconds",
		Help:      "Unix timestamp of the last completed sweep",
	})

	m.scoreChanges = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_changes_total",
		Help:      "Total number of detected score changes",
	})

	m.notificationsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications delivered",
	})

	m.notificationRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notification_retries_total",
		Help:      "Total number of failed delivery attempts that were retried",
	})

	m.notificationsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped after exhausting a bounded retry policy",
	})

	m.questionsAnnounced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "questions_announced_total",
		Help:      "Total number of contestant questions announced",
	})

	m.storeQueryDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_query_duration_milliseconds",
			Help:      "Histogram of contest database query duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"query"},
	)

	m.snapshotUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_users",
		Help:      "Number of users in the latest score snapshot",
	})

	m.snapshotTasks = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_tasks",
		Help:      "Number of tasks in the latest score snapshot",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests to the debug surface",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Histogram of HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordSweep records one completed sweep and its duration.
func RecordSweep(durationMs float64) {
	globalManager.sweepsTotal.Inc()
	globalManager.sweepDuration.Observe(durationMs)
	globalManager.lastSweepUnix.Set(float64(time.Now().Unix()))
}

// RecordSweepSkipped increments the fast-path skip counter.
func RecordSweepSkipped() {
	globalManager.sweepSkipped.Inc()
}

// RecordSweepFailure increments the sweep failure counter.
func RecordSweepFailure() {
	globalManager.sweepFailures.Inc()
}

// RecordScoreChange increments the detected score change counter.
func RecordScoreChange() {
	globalManager.scoreChanges.Inc()
}

// RecordNotificationSent increments the delivered notification counter.
func RecordNotificationSent() {
	globalManager.notificationsSent.Inc()
}

// RecordNotificationRetry increments the retried delivery counter.
func RecordNotificationRetry() {
	globalManager.notificationRetries.Inc()
}

// RecordNotificationDropped increments the dropped notification counter.
func RecordNotificationDropped() {
	globalManager.notificationsDropped.Inc()
}

// RecordQuestionAnnounced increments the announced question counter.
func RecordQuestionAnnounced() {
	globalManager.questionsAnnounced.Inc()
}

// RecordStoreQueryDuration records one store query duration in milliseconds.
func RecordStoreQueryDuration(query string, durationMs float64) {
	globalManager.storeQueryDuration.WithLabelValues(query).Observe(durationMs)
}

// UpdateSnapshotSize sets the dimensions of the latest snapshot.
func UpdateSnapshotSize(users, tasks int) {
	globalManager.snapshotUsers.Set(float64(users))
	globalManager.snapshotTasks.Set(float64(tasks))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
