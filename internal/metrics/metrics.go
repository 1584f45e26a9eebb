package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "puppaka"

// Login attempt results.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Recorder receives domain events from the services. Implementations must be safe
// for concurrent use.
type Recorder interface {
	ContactReceived()
	LoginAttempt(result string)
	ContentWrite(kind, op string)
}

// Metrics owns the collectors of one registry.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	contacts prometheus.Counter
	logins   *prometheus.CounterVec
	writes   *prometheus.CounterVec
}

var _ Recorder = (*Metrics)(nil)

// New creates the collectors on a fresh registry, together with Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		contacts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contacts_received_total",
			Help:      "Contact submissions stored.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Admin login attempts by result.",
		}, []string{"result"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_writes_total",
			Help:      "Admin content writes by kind and operation.",
		}, []string{"kind", "op"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.contacts, m.logins, m.writes,
	)
	return m
}

func (m *Metrics) ContactReceived() {
	m.contacts.Inc()
}

func (m *Metrics) LoginAttempt(result string) {
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) ContentWrite(kind, op string) {
	m.writes.WithLabelValues(kind, op).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by the matched route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status == http.StatusOK && !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) ContactReceived() {}

func (Nop) LoginAttempt(string) {}

func (Nop) ContentWrite(_, _ string) {}
