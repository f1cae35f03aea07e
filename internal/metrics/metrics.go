// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers the service metrics on a dedicated registry.
type Collector struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	loginOutcomes *prometheus.CounterVec
	revokedSwept  prometheus.Counter
	uploadedBytes prometheus.Counter
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dataroom_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataroom_http_request_duration_seconds",
			Help:    "HTTP request duration by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		loginOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dataroom_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		revokedSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataroom_revocations_swept_total",
			Help: "Revocation entries pruned by the sweep task.",
		}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataroom_uploaded_bytes_total",
			Help: "Total bytes accepted by file uploads.",
		}),
	}

	c.registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.loginOutcomes,
		c.revokedSwept,
		c.uploadedBytes,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordLogin records an attempt outcome: "success", "created" or "rejected".
func (c *Collector) RecordLogin(outcome string) {
	c.loginOutcomes.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordSwept(count int64) {
	c.revokedSwept.Add(float64(count))
}

func (c *Collector) RecordUploadedBytes(n int64) {
	c.uploadedBytes.Add(float64(n))
}

// Handler returns the scrape endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
