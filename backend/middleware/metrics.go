package middleware

import (
	"strconv"
	"time"

	"gigworks/backend/observability"

	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records Prometheus metrics for every request.
// The route pattern is used as the path label so that /api/datasets/42
// and /api/datasets/43 land in the same series.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		observability.RecordHTTPRequest(
			c.Method(),
			path,
			strconv.Itoa(c.Response().StatusCode()),
			time.Since(start),
		)

		return err
	}
}
