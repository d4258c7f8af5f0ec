package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

const namespace = "grader"

// Metrics holds every collector the service exports. A nil *Metrics is valid
// and records nothing, so callers never need to check Current().
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	jobsCreated  prometheus.Counter
	jobsTerminal *prometheus.CounterVec
	jobsReaped   prometheus.Counter
	jobsByStatus *prometheus.GaugeVec

	gradingMethod *prometheus.CounterVec
	stageLatency  *prometheus.HistogramVec

	gatewayRequests *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec

	guardrailRejections *prometheus.CounterVec
	busPublishErrors    prometheus.Counter
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Current() *Metrics {
	return instance
}

// Init builds the process-wide collectors once. Later calls return the same
// instance.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// New builds collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		jobsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "jobs", Name: "created_total",
			Help: "Grading jobs accepted.",
		}),
		jobsTerminal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "jobs", Name: "terminal_total",
			Help: "Grading jobs that reached a terminal status.",
		}, []string{"status"}),
		jobsReaped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "jobs", Name: "reaped_total",
			Help: "Jobs deleted after the retention window.",
		}),
		jobsByStatus: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "jobs", Name: "tracked",
			Help: "Jobs currently held in memory by status.",
		}, []string{"status"}),
		gradingMethod: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "grading", Name: "method_total",
			Help: "Graded submissions by course and grading method.",
		}, []string{"course", "method"}),
		stageLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "grading", Name: "stage_duration_seconds",
			Help:    "Duration of each grading stage.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage", "status"}),
		gatewayRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "gateway", Name: "requests_total",
			Help: "Generation service requests by model and status.",
		}, []string{"model", "status"}),
		gatewayLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "gateway", Name: "request_duration_seconds",
			Help:    "Generation service latency including retries.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"model"}),
		guardrailRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "guardrails", Name: "rejections_total",
			Help: "Submissions rejected at the boundary.",
		}, []string{"reason"}),
		busPublishErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bus", Name: "publish_errors_total",
			Help: "Job events that could not be published.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncJobCreated() {
	if m == nil {
		return
	}
	m.jobsCreated.Inc()
}

func (m *Metrics) IncJobTerminal(status string) {
	if m == nil {
		return
	}
	m.jobsTerminal.WithLabelValues(status).Inc()
}

func (m *Metrics) AddJobsReaped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.jobsReaped.Add(float64(n))
}

func (m *Metrics) SetJobsByStatus(counts map[string]int) {
	if m == nil {
		return
	}
	for status, n := range counts {
		m.jobsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

func (m *Metrics) IncGradingMethod(course, method string) {
	if m == nil {
		return
	}
	m.gradingMethod.WithLabelValues(course, method).Inc()
}

func (m *Metrics) ObserveStage(stage, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.stageLatency.WithLabelValues(stage, status).Observe(dur.Seconds())
}

func (m *Metrics) ObserveGatewayRequest(model, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(model, status).Inc()
	m.gatewayLatency.WithLabelValues(model).Observe(dur.Seconds())
}

func (m *Metrics) IncGuardrailRejection(reason string) {
	if m == nil {
		return
	}
	m.guardrailRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncBusPublishError() {
	if m == nil {
		return
	}
	m.busPublishErrors.Inc()
}
