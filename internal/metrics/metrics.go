// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector of this service plus the Go runtime ones.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	RequestCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"method", "endpoint"},
	)

	AIAttempts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_provider_attempts_total",
			Help: "AI provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ChatMessages = factory.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_relayed_total",
		Help: "Chat messages accepted, stored and broadcast",
	})

	ChatMasked = factory.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_masked_total",
		Help: "Chat messages whose text or username had banned words masked",
	})

	ChatDropped = factory.NewCounter(prometheus.CounterOpts{
		Name: "chat_clients_dropped_total",
		Help: "Realtime clients dropped because their send buffer was full",
	})

	WSConnections = factory.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connections",
		Help: "Currently open WebSocket connections",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(c.Request.Method, endpoint).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
