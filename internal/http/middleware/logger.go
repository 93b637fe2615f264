package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"userapi/internal/logger"
)

// Logger logs each HTTP request as one structured line with
// request_id, method, path, status and latency (milliseconds).
func Logger(l *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		resolveError(c, c.Next())

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		latency := float64(time.Since(start).Microseconds()) / 1000

		l.Info("http_request",
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Float64("latency", latency),
		)
		return nil
	}
}

// LoggerWithWriter is Logger writing JSON lines to w with ts in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.NewWithWriter(w, loc))
}

// resolveError hands a chain error to the app's error handler so that the
// final response status is known to the calling middleware.
func resolveError(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	if hErr := c.App().ErrorHandler(c, err); hErr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}
