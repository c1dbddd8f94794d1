package middleware

import (
	"time"

	"github.com/base-creator-connect/backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records request counts and latency by route pattern.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
