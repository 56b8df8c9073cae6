package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ipg"

// Metrics owns its registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	RequestsBuilt prometheus.Counter
	Callbacks     *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPLatencyMS *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_built_total",
			Help:      "Signed gateway requests rendered into a payment form.",
		}),
		Callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callbacks_total",
			Help:      "Gateway return redirects by flag and outcome.",
		}, []string{"flag", "outcome"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Customer notifications by template and result.",
		}, []string{"template", "result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "status"}),
		HTTPLatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method"}),
	}

	m.registry.MustRegister(
		m.RequestsBuilt,
		m.Callbacks,
		m.Notifications,
		m.HTTPRequests,
		m.HTTPLatencyMS,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) GatewayRequestBuilt() {
	if m == nil {
		return
	}
	m.RequestsBuilt.Inc()
}

// CallbackReceived counts a return redirect. outcome is applied, replayed
// or rejected.
func (m *Metrics) CallbackReceived(flag, outcome string) {
	if m == nil {
		return
	}
	m.Callbacks.WithLabelValues(flag, outcome).Inc()
}

func (m *Metrics) NotificationSent(template, result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(template, result).Inc()
}

func (m *Metrics) ObserveHTTP(method, status string, latencyMS float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, status).Inc()
	m.HTTPLatencyMS.WithLabelValues(method).Observe(latencyMS)
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
