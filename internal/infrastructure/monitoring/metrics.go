package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Window metrics
	WindowsOpen    prometheus.Gauge
	WindowsCreated prometheus.Counter
	WindowOps      *prometheus.CounterVec

	// Dock metrics
	DockFrames     prometheus.Counter
	DockPointer    prometheus.Counter
	DockSettleTime prometheus.Histogram

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec
	ServiceErrors   *prometheus.CounterVec

	// Session metrics
	SessionsActive   prometheus.Gauge
	SessionsSaved    prometheus.Counter
	SessionsRestored prometheus.Counter

	// Catalog metrics
	CatalogApps prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64
	TotalErrors       int64
	OpenWindows       int64
	ActiveConnections int64
	TotalDuration     float64 // sum of all request durations
	RequestCount      int64   // count for averaging
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mymac_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mymac_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mymac_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mymac_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Window metrics
		WindowsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mymac_windows_open",
				Help: "Number of open windows",
			},
		),
		WindowsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mymac_windows_created_total",
				Help: "Total number of window records created",
			},
		),
		WindowOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mymac_window_ops_total",
				Help: "Total number of window operations",
			},
			[]string{"op"},
		),

		// Dock metrics
		DockFrames: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mymac_dock_frames_total",
				Help: "Total number of dock animation frames computed",
			},
		),
		DockPointer: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mymac_dock_pointer_events_total",
				Help: "Total number of pointer events applied to the dock",
			},
		),
		DockSettleTime: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mymac_dock_settle_seconds",
				Help:    "Time for the dock to settle after the pointer leaves",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5},
			},
		),

		// Service metrics
		ServiceCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mymac_service_calls_total",
				Help: "Total number of service calls",
			},
			[]string{"service", "method", "status"},
		),
		ServiceDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mymac_service_duration_seconds",
				Help:    "Service call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"service", "method"},
		),
		ServiceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mymac_service_errors_total",
				Help: "Total number of service errors",
			},
			[]string{"service", "method", "error_type"},
		),

		// Session metrics
		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mymac_sessions_active",
				Help: "Number of saved sessions",
			},
		),
		SessionsSaved: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mymac_sessions_saved_total",
				Help: "Total number of sessions saved",
			},
		),
		SessionsRestored: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mymac_sessions_restored_total",
				Help: "Total number of sessions restored",
			},
		),

		// Catalog metrics
		CatalogApps: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mymac_catalog_apps",
				Help: "Number of apps in the catalog",
			},
		),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mymac_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mymac_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mymac_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordServiceCall records a service call
func (m *Metrics) RecordServiceCall(service, method, status string, duration time.Duration) {
	m.ServiceCalls.WithLabelValues(service, method, status).Inc()
	m.ServiceDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordServiceError records a service error
func (m *Metrics) RecordServiceError(service, method, errorType string) {
	m.ServiceErrors.WithLabelValues(service, method, errorType).Inc()
}

// RecordWindowOp records a window operation
func (m *Metrics) RecordWindowOp(op string) {
	m.WindowOps.WithLabelValues(op).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// RecordDockFrame records one computed dock animation frame
func (m *Metrics) RecordDockFrame() {
	m.DockFrames.Inc()
}

// RecordDockPointer records one pointer event applied to the dock
func (m *Metrics) RecordDockPointer() {
	m.DockPointer.Inc()
}

// RecordDockSettle records how long the dock took to come to rest
func (m *Metrics) RecordDockSettle(d time.Duration) {
	m.DockSettleTime.Observe(d.Seconds())
}

// SetWindowsOpen sets the number of open windows
func (m *Metrics) SetWindowsOpen(count int) {
	m.WindowsOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.OpenWindows = int64(count)
	m.mu.Unlock()
}

// IncWindowsCreated increments the window records counter
func (m *Metrics) IncWindowsCreated() {
	m.WindowsCreated.Inc()
}

// SetSessionsActive sets the number of saved sessions
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
}

// IncSessionsSaved increments the sessions saved counter
func (m *Metrics) IncSessionsSaved() {
	m.SessionsSaved.Inc()
}

// IncSessionsRestored increments the sessions restored counter
func (m *Metrics) IncSessionsRestored() {
	m.SessionsRestored.Inc()
}

// SetCatalogApps sets the number of apps in the catalog
func (m *Metrics) SetCatalogApps(count int) {
	m.CatalogApps.Set(float64(count))
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	if m.snapshot.ActiveConnections > 0 {
		m.snapshot.ActiveConnections--
	}
	m.mu.Unlock()
}

// GetSnapshot returns current metric values for the JSON stats API
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// StartTime returns when the collector was created
func (m *Metrics) StartTime() time.Time {
	return m.startTime
}
