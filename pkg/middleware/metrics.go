package middleware

import (
	"errors"
	"strconv"

	"ohs-consultant/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics counts admin requests by method and final status.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}
		metrics.AdminHTTPRequests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()

		return err
	}
}
