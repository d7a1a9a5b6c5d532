// Package metrics provides Prometheus metrics for the solhttp service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Domain
	keypairsGenerated prometheus.Counter
	messagesSigned    prometheus.Counter
	verifications     *prometheus.CounterVec
	instructionsBuilt *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "solhttp",
		subsystem:        "api",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Rejected requests by endpoint and error kind",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "kind"})

	m.keypairsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "keypairs_generated_total",
		Help:        "Total number of keypairs generated",
		ConstLabels: m.constLabels,
	})

	m.messagesSigned = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "messages_signed_total",
		Help:        "Total number of messages signed",
		ConstLabels: m.constLabels,
	})

	m.verifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "verifications_total",
		Help:        "Signature verifications by outcome",
		ConstLabels: m.constLabels,
	}, []string{"valid"})

	m.instructionsBuilt = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "instructions_built_total",
		Help:        "Instructions constructed by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})
}

// RecordHTTPRequest records an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled.Load() {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError counts a rejected request.
func (m *Manager) RecordError(endpoint, kind string) {
	if !m.enabled.Load() {
		return
	}
	m.errorsByEndpoint.WithLabelValues(endpoint, kind).Inc()
}

// RecordKeypairGenerated increments the keypair counter.
func (m *Manager) RecordKeypairGenerated() {
	if m.enabled.Load() {
		m.keypairsGenerated.Inc()
	}
}

// RecordMessageSigned increments the signature counter.
func (m *Manager) RecordMessageSigned() {
	if m.enabled.Load() {
		m.messagesSigned.Inc()
	}
}

// RecordVerification counts a verification by outcome.
func (m *Manager) RecordVerification(valid bool) {
	if !m.enabled.Load() {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.verifications.WithLabelValues(label).Inc()
}

// RecordInstructionBuilt counts a constructed instruction.
func (m *Manager) RecordInstructionBuilt(kind string) {
	if m.enabled.Load() {
		m.instructionsBuilt.WithLabelValues(kind).Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled.Load() {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled.Load() {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// Package-level helpers delegate to the global manager.

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordError counts a rejected request on the global manager.
func RecordError(endpoint, kind string) {
	globalManager.RecordError(endpoint, kind)
}

// RecordKeypairGenerated increments the global keypair counter.
func RecordKeypairGenerated() { globalManager.RecordKeypairGenerated() }

// RecordMessageSigned increments the global signature counter.
func RecordMessageSigned() { globalManager.RecordMessageSigned() }

// RecordVerification counts a verification on the global manager.
func RecordVerification(valid bool) { globalManager.RecordVerification(valid) }

// RecordInstructionBuilt counts a constructed instruction on the global manager.
func RecordInstructionBuilt(kind string) { globalManager.RecordInstructionBuilt(kind) }

// UpdateSystemMemoryUsage sets the global heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the global goroutine gauge.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
