package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the portal's collectors
type Metrics struct {
	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
	DocumentsTotal  *prometheus.CounterVec
	RenderLatencyMS *prometheus.HistogramVec
	BackupsTotal    *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factuur",
			Subsystem: "portal",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "factuur",
			Subsystem: "portal",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		DocumentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factuur",
			Subsystem: "documents",
			Name:      "rendered_total",
			Help:      "Documents rendered, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RenderLatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "factuur",
			Subsystem: "documents",
			Name:      "render_duration_ms",
			Help:      "PDF render latency in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}, []string{"kind"}),
		BackupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factuur",
			Subsystem: "backup",
			Name:      "runs_total",
			Help:      "Backup runs, by result.",
		}, []string{"result"}),
		gatherer: reg,
	}

	reg.MustRegister(m.Requests, m.LatencyMS, m.DocumentsTotal, m.RenderLatencyMS, m.BackupsTotal)
	return m
}

// ObserveRender records one render attempt
func (m *Metrics) ObserveRender(kind string, took time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.DocumentsTotal.WithLabelValues(kind, outcome).Inc()
	m.RenderLatencyMS.WithLabelValues(kind).Observe(float64(took.Microseconds()) / 1000)
}

// ObserveBackup records the result of a backup run
func (m *Metrics) ObserveBackup(result string) {
	if m == nil {
		return
	}
	m.BackupsTotal.WithLabelValues(result).Inc()
}

// GinMiddleware counts requests per route template
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Microseconds()) / 1000)
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
