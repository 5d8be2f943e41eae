package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the prometheus collectors.
type Config struct {
	ServiceName string
	Environment string
}

const (
	SourceMaster     = "master"
	SourceStandalone = "standalone"
)

// Metrics exposes HTTP and catalog instruments. A nil *Metrics records nothing.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	productWrites   *prometheus.CounterVec
	priceCascade    prometheus.Counter
	delinked        prometheus.Counter
	rateLimitDenied *prometheus.CounterVec
}

// New registers the collectors on registerer (the default registerer when nil).
func New(registerer prometheus.Registerer, cfg Config) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "oemcatalog"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "oemcatalog_http_requests_total",
			Help:        "HTTP requests by method, route and status.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "oemcatalog_http_request_duration_seconds",
			Help:        "HTTP request latency by method and route.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		productWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "oemcatalog_catalog_product_writes_total",
			Help:        "Catalog product upserts by source (master or standalone).",
			ConstLabels: constLabels,
		}, []string{"source"}),
		priceCascade: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "oemcatalog_master_price_cascade_products_total",
			Help:        "Catalog products raised to a new master product price.",
			ConstLabels: constLabels,
		}),
		delinked: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "oemcatalog_master_delete_delinked_products_total",
			Help:        "Catalog products detached from a deleted master product.",
			ConstLabels: constLabels,
		}),
		rateLimitDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "oemcatalog_rate_limit_denied_total",
			Help:        "Requests rejected by the rate limiter by endpoint.",
			ConstLabels: constLabels,
		}, []string{"endpoint"}),
	}

	collectors := []prometheus.Collector{
		m.httpRequests,
		m.httpDuration,
		m.productWrites,
		m.priceCascade,
		m.delinked,
		m.rateLimitDenied,
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// GinMiddleware records request counts and latency by route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RecordCatalogProductWrite(source string) {
	if m == nil {
		return
	}
	m.productWrites.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordPriceCascade(products int64) {
	if m == nil || products <= 0 {
		return
	}
	m.priceCascade.Add(float64(products))
}

func (m *Metrics) RecordDelinked(products int64) {
	if m == nil || products <= 0 {
		return
	}
	m.delinked.Add(float64(products))
}

func (m *Metrics) RecordRateLimitDenied(endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.WithLabelValues(endpoint).Inc()
}
