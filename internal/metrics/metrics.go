// Package metrics registers the Prometheus collectors of the roster API.
// Route templates (c.Path()) are used as labels so PSCs never become label values.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginInvalid = "invalid_credentials"
	LoginError   = "error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_http_requests_total",
			Help: "Total HTTP requests handled by the roster API.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roster_http_request_duration_seconds",
			Help:    "HTTP request latency of the roster API in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_login_attempts_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	gateRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_gate_rejections_total",
			Help: "Protected requests rejected by the access gate, by reason code.",
		},
		[]string{"code"},
	)
)

// Middleware records request count and latency per route template.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ObserveLogin counts one login attempt.
func ObserveLogin(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

// ObserveGateRejection counts one rejected protected request.
func ObserveGateRejection(code string) {
	gateRejections.WithLabelValues(code).Inc()
}

// Handler exposes the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
