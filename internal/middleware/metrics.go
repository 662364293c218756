package middleware

import (
	"strconv"
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flymagine_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// StoreErrors counts mapped store failures by error code.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flymagine_store_errors_total",
		Help: "Total number of store errors by mapped error code",
	}, []string{"code"})

	// FeedComposeDuration records feed assembly latency.
	FeedComposeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flymagine_feed_compose_duration_seconds",
		Help:    "Time spent composing a page of posts",
		Buckets: prometheus.DefBuckets,
	}, []string{"listing"})

	// LikeToggles counts like toggles by outcome.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flymagine_like_toggles_total",
		Help: "Total number of like toggles by action",
	}, []string{"action"})

	// HTTPStatus counts API responses by status code.
	HTTPStatus = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flymagine_http_responses_total",
		Help: "Total number of HTTP responses by status code",
	}, []string{"status"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide Prometheus middleware for serviceName.
// The collectors are registered on the default registry once.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request metrics and response status counts.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	handler := p.Middleware
	return func(c *fiber.Ctx) error {
		err := handler(c)
		HTTPStatus.WithLabelValues(strconv.Itoa(c.Response().StatusCode())).Inc()
		return err
	}
}
