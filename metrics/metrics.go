package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	documents       *prometheus.CounterVec
	documentLatency prometheus.Histogram
	transitions     *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// NewCollector registers every metric on reg. Pass prometheus.NewRegistry()
// in tests to avoid duplicate registration.
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		gatherer: reg,
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outage_documents_generated_total",
			Help: "Outage notice documents by outcome (full, no_qr, failed)",
		}, []string{"outcome"}),
		documentLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "outage_document_generation_seconds",
			Help:    "Time spent generating one outage notice document",
			Buckets: prometheus.DefBuckets,
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outage_job_transitions_total",
			Help: "Workflow actions applied to outage jobs",
		}, []string{"action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outage_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "outage_http_request_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(c.documents, c.documentLatency, c.transitions, c.httpRequests, c.httpLatency)
	return c
}

// RecordDocument counts one generation attempt.
func (c *Collector) RecordDocument(outcome string, took time.Duration) {
	c.documents.WithLabelValues(outcome).Inc()
	c.documentLatency.Observe(took.Seconds())
}

// RecordTransition counts one workflow action (notify, post, close...).
func (c *Collector) RecordTransition(action string) {
	c.transitions.WithLabelValues(action).Inc()
}

// Middleware times every request. Unmatched routes share one label.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.httpRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
