package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the console BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	platformErrors  *prometheus.CounterVec
	pollDuration    prometheus.Histogram
	pollsTotal      *prometheus.CounterVec
	tenantsTotal    prometheus.Gauge
	queueDepth      prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
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
				Name:    "console_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		platformErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_platform_errors_total",
				Help: "Total errors from platform API calls.",
			},
			[]string{"operation"},
		),
		pollDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "console_poll_duration_seconds",
				Help:    "Duration of tenant snapshot refreshes.",
				Buckets: prometheus.DefBuckets,
			},
		),
		pollsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_polls_total",
				Help: "Total snapshot refresh attempts by outcome.",
			},
			[]string{"status"},
		),
		tenantsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "console_tenants_total",
				Help: "Tenant count in the latest snapshot.",
			},
		),
		queueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "console_service_queue_depth",
				Help: "Manual service queue depth in the latest snapshot.",
			},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrPlatformError increments the platform error counter.
func (m *Metrics) IncrPlatformError(operation string) {
	m.platformErrors.WithLabelValues(operation).Inc()
}

// RecordPoll records one snapshot refresh attempt.
func (m *Metrics) RecordPoll(d time.Duration, err error) {
	m.pollDuration.Observe(d.Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	m.pollsTotal.WithLabelValues(status).Inc()
}

// SetTenantCount updates the snapshot tenant gauge.
func (m *Metrics) SetTenantCount(n int) {
	m.tenantsTotal.Set(float64(n))
}

// SetQueueDepth updates the manual queue depth gauge.
func (m *Metrics) SetQueueDepth(n int) {
	m.queueDepth.Set(float64(n))
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// OpsSnapshot is a point-in-time read of the console's own counters,
// served on GET /v1/admin/metrics for the operations panel.
type OpsSnapshot struct {
	PollsTotal    int64   `json:"pollsTotal"`
	PollErrors    int64   `json:"pollErrors"`
	PollErrorRate float64 `json:"pollErrorRate"`
	TenantCount   int64   `json:"tenantCount"`
	QueueDepth    int64   `json:"queueDepth"`
	RequestsTotal int64   `json:"requestsTotal"`
	RequestErrors int64   `json:"requestErrors"`
	Period        string  `json:"period"`
}

// GetOpsSnapshot gathers current values from the Prometheus collectors.
// Counters are cumulative since process start.
func (m *Metrics) GetOpsSnapshot() *OpsSnapshot {
	pollOK := getCounterValue(m.pollsTotal, "success")
	pollErr := getCounterValue(m.pollsTotal, "error")
	reqOK := getCounterValue(m.requestsTotal, "success")
	reqErr := getCounterValue(m.requestsTotal, "error")

	errorRate := float64(0)
	if pollOK+pollErr > 0 {
		errorRate = pollErr / (pollOK + pollErr)
	}

	return &OpsSnapshot{
		PollsTotal:    int64(pollOK + pollErr),
		PollErrors:    int64(pollErr),
		PollErrorRate: errorRate,
		TenantCount:   int64(getGaugeValue(m.tenantsTotal)),
		QueueDepth:    int64(getGaugeValue(m.queueDepth)),
		RequestsTotal: int64(reqOK + reqErr),
		RequestErrors: int64(reqErr),
		Period:        "since_start",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

// getGaugeValue extracts the current float64 value from a Gauge.
func getGaugeValue(g prometheus.Gauge) float64 {
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		return 0
	}
	if m.Gauge != nil && m.Gauge.Value != nil {
		return *m.Gauge.Value
	}
	return 0
}
