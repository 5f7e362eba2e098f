package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/course-scheduler/internal/dto"
	"github.com/noah-isme/course-scheduler/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	backend         string
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	storeErrors     *prometheus.CounterVec
	scanDuration    prometheus.Histogram
	scanFailures    prometheus.Counter
	notifications   *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	storeOpCount         uint64
	storeErrorCount      uint64
	storeDurationTotal   uint64
	scanCount            uint64
	notificationCount    uint64
}

// NewMetricsService registers the collectors on a private registry. backend
// labels the snapshot with the active storage kind.
func NewMetricsService(backend string) *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "course_store_operation_duration_seconds",
		Help:    "Duration of course repository operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation"})

	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "course_store_errors_total",
		Help: "Failed course repository operations",
	}, []string{"backend", "operation"})

	scanDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "deadline_scan_duration_seconds",
		Help:    "Duration of deadline scans",
		Buckets: prometheus.DefBuckets,
	})

	scanFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deadline_scan_failures_total",
		Help: "Deadline scans that could not read assignments",
	})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deadline_notifications_total",
		Help: "Deadline notifications emitted by band",
	}, []string{"band"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storeDuration, storeErrors, scanDuration, scanFailures, notifications, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		backend:         backend,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		storeDuration:   storeDuration,
		storeErrors:     storeErrors,
		scanDuration:    scanDuration,
		scanFailures:    scanFailures,
		notifications:   notifications,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveStoreOperation records a repository call.
func (m *MetricsService) ObserveStoreOperation(backend, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	atomic.AddUint64(&m.storeOpCount, 1)
	atomic.AddUint64(&m.storeDurationTotal, uint64(duration.Nanoseconds()))
	if err != nil {
		m.storeErrors.WithLabelValues(backend, operation).Inc()
		atomic.AddUint64(&m.storeErrorCount, 1)
	}
}

// ObserveDeadlineScan records one scheduler run.
func (m *MetricsService) ObserveDeadlineScan(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.scanDuration.Observe(duration.Seconds())
	atomic.AddUint64(&m.scanCount, 1)
	if err != nil {
		m.scanFailures.Inc()
	}
}

// RecordNotification counts an emitted notification.
func (m *MetricsService) RecordNotification(band models.DeadlineBand) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(string(band)).Inc()
	atomic.AddUint64(&m.notificationCount, 1)
}

// Snapshot returns aggregated metrics for the health endpoint.
func (m *MetricsService) Snapshot() dto.SystemMetrics {
	if m == nil {
		return dto.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	storeOps := atomic.LoadUint64(&m.storeOpCount)
	storeDuration := atomic.LoadUint64(&m.storeDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgStoreMs float64
	if storeOps > 0 {
		avgStoreMs = float64(storeDuration) / float64(storeOps) / float64(time.Millisecond)
	}

	return dto.SystemMetrics{
		Backend:                  m.backend,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		StoreOperations:          storeOps,
		StoreErrors:              atomic.LoadUint64(&m.storeErrorCount),
		AverageStoreOperationMs:  avgStoreMs,
		DeadlineScans:            atomic.LoadUint64(&m.scanCount),
		NotificationsSent:        atomic.LoadUint64(&m.notificationCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
