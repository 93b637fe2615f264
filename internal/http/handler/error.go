package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"userapi/internal/apperror"
	"userapi/internal/http/middleware"
	"userapi/internal/model"
)

// errorRule is one row of the error dispatch table.
type errorRule struct {
	status int
	label  string
}

// errorRules maps every handled error kind to its status and label.
// Kinds missing from this table fall through to Fiber's default handler.
var errorRules = map[apperror.Kind]errorRule{
	apperror.KindArithmetic:    {status: fiber.StatusInternalServerError, label: "Division by zero is not allowed."},
	apperror.KindRouteNotFound: {status: fiber.StatusNotFound, label: "Resource not found."},
	apperror.KindNumberFormat:  {status: fiber.StatusBadRequest, label: "Invalid number format."},
	apperror.KindNullPointer:   {status: fiber.StatusInternalServerError, label: "Null pointer exception occurred."},
	apperror.KindUserNotFound:  {status: fiber.StatusNotFound, label: "User not found."},
}

// ErrorObserver is notified of every error that reaches the boundary.
type ErrorObserver interface {
	ObserveError(kind string, status int)
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// classify resolves the error kind, treating any Fiber 404 as a missing route.
func classify(err error) apperror.Kind {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code == fiber.StatusNotFound {
		return apperror.KindRouteNotFound
	}
	return apperror.KindOf(err)
}

// writeError writes the uniform JSON error body.
//
// Parameters:
// - status: HTTP status code to return
// - label: short human-readable error label
// - message: underlying cause text; empty renders as null
func writeError(c *fiber.Ctx, status int, label, message string) error {
	res := model.ErrorResponse{
		Date:   time.Now(),
		Error:  label,
		Status: status,
		Path:   c.Path(),
	}
	if message != "" {
		res.Message = &message
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that translates known
// error kinds into ErrorResponse bodies. obs may be nil.
func ErrorHandler(l *zap.Logger, obs ErrorObserver) fiber.ErrorHandler {
	if l == nil {
		l = zap.NewNop()
	}

	return func(c *fiber.Ctx, err error) error {
		kind := classify(err)
		fields := []zap.Field{
			zap.String("request_id", requestIDFromCtx(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("kind", kind.String()),
			zap.Error(err),
		}

		span := trace.SpanFromContext(c.UserContext())
		if sc := span.SpanContext(); sc.IsValid() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())

		rule, ok := errorRules[kind]
		if !ok {
			l.Error("unhandled request error", fields...)
			if obs != nil {
				status := fiber.StatusInternalServerError
				var fe *fiber.Error
				if errors.As(err, &fe) {
					status = fe.Code
				}
				obs.ObserveError(kind.String(), status)
			}
			return fiber.DefaultErrorHandler(c, err)
		}

		fields = append(fields, zap.Int("status", rule.status))
		if rule.status >= fiber.StatusInternalServerError {
			l.Error("request failed", fields...)
		} else {
			l.Warn("request rejected", fields...)
		}
		if obs != nil {
			obs.ObserveError(kind.String(), rule.status)
		}

		return writeError(c, rule.status, rule.label, apperror.MessageOf(err))
	}
}
