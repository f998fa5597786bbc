package middleware

import (
	"strconv"
	"strings"
	"time"

	"quartermaster-backend/internal/infrastructure/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency by route pattern (skip /metrics, /health*, favicon).
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/metrics" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
