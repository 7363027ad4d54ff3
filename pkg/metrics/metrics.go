package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application collectors. All methods are no-ops on a
// nil receiver so callers never need to check.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	winners       *prometheus.CounterVec
	exports       *prometheus.CounterVec
	certificates  *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg gets a fresh registry
// with the Go and process collectors attached.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventtech_http_requests_total",
			Help: "number of handled http requests",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eventtech_http_request_duration_seconds",
			Help:    "http request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventtech_registrations_total",
			Help: "registration attempts by outcome",
		}, []string{"result"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventtech_admin_logins_total",
			Help: "admin login attempts by outcome",
		}, []string{"result"}),
		winners: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventtech_winner_changes_total",
			Help: "winner status changes",
		}, []string{"action"}),
		exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventtech_exports_total",
			Help: "participant exports by format",
		}, []string{"format"}),
		certificates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventtech_certificates_generated_total",
			Help: "generated certificates by type",
		}, []string{"type"}),
	}
}

// Middleware records request count and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registration(result string) {
	if m != nil {
		m.registrations.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Login(result string) {
	if m != nil {
		m.logins.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) WinnerChange(action string) {
	if m != nil {
		m.winners.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) Export(format string) {
	if m != nil {
		m.exports.WithLabelValues(format).Inc()
	}
}

func (m *Metrics) Certificate(certType string) {
	if m != nil {
		m.certificates.WithLabelValues(certType).Inc()
	}
}
