// Package metrics provides Prometheus metrics for the tallymap service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by tallymap.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Refresh pipeline
	refreshCycles   *prometheus.CounterVec
	ticksSkipped    prometheus.Counter
	fetchLatency    prometheus.Histogram
	fetchErrors     *prometheus.CounterVec
	parseRows       *prometheus.CounterVec
	lastSuccessUnix prometheus.Gauge
	lastFailureUnix prometheus.Gauge

	// Published results
	regions       *prometheus.GaugeVec
	units         *prometheus.GaugeVec
	rawVotes      *prometheus.GaugeVec
	sharePercent  *prometheus.GaugeVec
	displayUpdate prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// Websocket push
	wsClients        prometheus.Gauge
	wsMessages       *prometheus.CounterVec
	wsDroppedPerSend prometheus.Counter

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level helpers

// customRegistry keeps default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tallymap",
		subsystem:        "refresh",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) initializeMetrics() { //nolint:funlen
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.refreshCycles = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("cycles_total"),
		Help:        "Refresh cycles by outcome (ok, error)",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.ticksSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("ticks_skipped_total"),
		Help:        "Refresh triggers skipped because a cycle was still in flight",
		ConstLabels: labels,
	})

	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fetch_latency_seconds"),
		Help:        "Latency of the CSV source fetch",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.fetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fetch_errors_total"),
		Help:        "Source fetch failures by kind (network, http_status)",
		ConstLabels: labels,
	}, []string{"kind"})

	m.parseRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("rows_total"),
		Help:        "Parsed data rows by outcome (accepted, short, invalid)",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.lastSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("last_success_unix"),
		Help:        "Unix time of the last successful refresh",
		ConstLabels: labels,
	})

	m.lastFailureUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("last_failure_unix"),
		Help:        "Unix time of the last failed refresh",
		ConstLabels: labels,
	})

	m.regions = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "results",
		Name:        m.name("regions"),
		Help:        "Parsed regions in the current results by category",
		ConstLabels: labels,
	}, []string{"category"})

	m.units = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "results",
		Name:        m.name("units"),
		Help:        "Units won per party",
		ConstLabels: labels,
	}, []string{"party"})

	m.rawVotes = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "results",
		Name:        m.name("raw_votes"),
		Help:        "Raw ballots per party summed over all regions",
		ConstLabels: labels,
	}, []string{"party"})

	m.sharePercent = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "results",
		Name:        m.name("share_percent"),
		Help:        "Raw vote share per party in percent",
		ConstLabels: labels,
	}, []string{"party"})

	m.displayUpdate = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "results",
		Name:        m.name("last_update_unix"),
		Help:        "Unix time of the last published update",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("requests_total"),
		Help:        "HTTP requests by endpoint, method and status",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("errors_total"),
		Help:        "HTTP error responses by endpoint and error type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.wsClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "ws",
		Name:        m.name("clients"),
		Help:        "Connected websocket clients",
		ConstLabels: labels,
	})

	m.wsMessages = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "ws",
		Name:        m.name("messages_total"),
		Help:        "Websocket messages queued to clients by type",
		ConstLabels: labels,
	}, []string{"type"})

	m.wsDroppedPerSend = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "ws",
		Name:        m.name("dropped_total"),
		Help:        "Websocket messages dropped because a client buffer was full",
		ConstLabels: labels,
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("memory_usage_bytes"),
		Help:        "Heap bytes allocated",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("gc_pause_time_milliseconds"),
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// Refresh pipeline.

// RecordRefreshCycle counts a finished refresh cycle ("ok" or "error").
func RecordRefreshCycle(outcome string) {
	globalManager.refreshCycles.WithLabelValues(outcome).Inc()
	now := float64(time.Now().Unix())
	if outcome == "ok" {
		globalManager.lastSuccessUnix.Set(now)
	} else {
		globalManager.lastFailureUnix.Set(now)
	}
}

// RecordTickSkipped counts a trigger dropped by the overlap policy.
func RecordTickSkipped() {
	globalManager.ticksSkipped.Inc()
}

// RecordFetchLatency observes one source fetch.
func RecordFetchLatency(d time.Duration) {
	globalManager.fetchLatency.Observe(d.Seconds())
}

// RecordFetchError counts a fetch failure of the given kind.
func RecordFetchError(kind string) {
	globalManager.fetchErrors.WithLabelValues(kind).Inc()
}

// RecordParsedRows adds row outcome counts from one parse.
func RecordParsedRows(accepted, short, invalid int) {
	globalManager.parseRows.WithLabelValues("accepted").Add(float64(accepted))
	globalManager.parseRows.WithLabelValues("short").Add(float64(short))
	globalManager.parseRows.WithLabelValues("invalid").Add(float64(invalid))
}

// Published results.

// UpdateRegionCount sets the number of regions in a category.
func UpdateRegionCount(category string, n int) {
	globalManager.regions.WithLabelValues(category).Set(float64(n))
}

// UpdateUnits sets the units won by a party.
func UpdateUnits(party string, n int) {
	globalManager.units.WithLabelValues(party).Set(float64(n))
}

// UpdateRawVotes sets the raw ballot sum of a party.
func UpdateRawVotes(party string, n int) {
	globalManager.rawVotes.WithLabelValues(party).Set(float64(n))
}

// UpdateSharePercent sets the raw vote share of a party.
func UpdateSharePercent(party string, pct float64) {
	globalManager.sharePercent.WithLabelValues(party).Set(pct)
}

// UpdateLastDisplayUpdate records when results were last published.
func UpdateLastDisplayUpdate(t time.Time) {
	globalManager.displayUpdate.Set(float64(t.Unix()))
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Websocket.

// UpdateWSClients sets the connected websocket client count.
func UpdateWSClients(n int) {
	globalManager.wsClients.Set(float64(n))
}

// RecordWSMessage counts a message queued to a client.
func RecordWSMessage(msgType string) {
	globalManager.wsMessages.WithLabelValues(msgType).Inc()
}

// RecordWSDropped counts a message dropped for a slow client.
func RecordWSDropped() {
	globalManager.wsDroppedPerSend.Inc()
}

// System.

// UpdateSystemMemoryUsage sets heap bytes allocated.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry all tallymap metrics are registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
