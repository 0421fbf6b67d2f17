package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// HTTPObserver is implemented by *metrics.Metrics.
type HTTPObserver interface {
	ObserveHTTP(method string, status int)
}

// Metrics counts every request by method and final status.
func Metrics(obs HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		obs.ObserveHTTP(c.Method(), statusOf(c, err))
		return err
	}
}
