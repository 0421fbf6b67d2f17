package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// quietPaths are polled by orchestrators and scrapers; successful hits are
// logged at Debug.
var quietPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// Logger writes one record per request, at Warn for 4xx and Error for 5xx.
func Logger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := statusOf(c, err)

		level := requestLevel(c.Path(), status)
		if !logger.Enabled(c.UserContext(), level) {
			return err
		}

		logger.Log(c.UserContext(), level, "http request",
			slog.Any("request_id", c.Locals(requestid.ConfigDefault.ContextKey)),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.IP()),
			slog.String("user_agent", c.Get("User-Agent")),
		)
		return err
	}
}

func requestLevel(path string, status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case quietPaths[path]:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
