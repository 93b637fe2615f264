package handler

import (
	"context"
	"database/sql"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"userapi/internal/apperror"
	"userapi/internal/service"
)

const greeting = "Hello, Fiber!"

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// db may be nil when users are not served from PostgreSQL.
func RegisterRoutes(app *fiber.App, db *sql.DB, userSvc service.UserService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api/app")
	api.Get("/", Index())
	api.Get("/show/:id?", ShowUser(userSvc))
	api.Get("/users", ListUsers(userSvc))
	api.Get("/divide/:dividend/:divisor", Divide())
}

// HealthCheck checks database connectivity when a database is configured.
//
// @Summary Health check
// @Tags    System
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} model.ErrorResponse
// @Router  /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "Service unavailable.", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
//
// @Summary Liveness probe
// @Tags    System
// @Success 200
// @Router  /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Index always fails: "abc" is not a number.
//
// @Summary Number format demo
// @Tags    App
// @Produce plain
// @Success 200 {string} string
// @Failure 400 {object} model.ErrorResponse
// @Router  /api/app/ [get]
func Index() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := strconv.Atoi("abc"); err != nil {
			return err
		}
		return c.SendString(greeting)
	}
}

// ShowUser returns a single user by id.
//
// @Summary Show user
// @Tags    App
// @Produce json
// @Param   id  path     int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router  /api/app/show/{id} [get]
func ShowUser(userSvc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := pathParam(c, "id")
		if err != nil {
			return err
		}
		if raw == "" {
			return apperror.New(apperror.KindUserNotFound, "Invalid user ID")
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		if id <= 0 {
			return apperror.New(apperror.KindUserNotFound, "Invalid user ID")
		}

		user, ok := userSvc.FindByID(id)
		if !ok {
			return apperror.Newf(apperror.KindUserNotFound, "User not found with ID: %d", id)
		}
		return c.JSON(user)
	}
}

// ListUsers returns every user in store order.
//
// @Summary List users
// @Tags    App
// @Produce json
// @Success 200 {array} model.User
// @Router  /api/app/users [get]
func ListUsers(userSvc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(userSvc.FindAll())
	}
}

// Divide performs integer division of two path values.
//
// @Summary Division demo
// @Tags    App
// @Produce json
// @Param   dividend path     int true "Dividend"
// @Param   divisor  path     int true "Divisor"
// @Success 200      {object} map[string]int
// @Failure 400      {object} model.ErrorResponse
// @Failure 500      {object} model.ErrorResponse
// @Router  /api/app/divide/{dividend}/{divisor} [get]
func Divide() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawDividend, err := pathParam(c, "dividend")
		if err != nil {
			return err
		}
		rawDivisor, err := pathParam(c, "divisor")
		if err != nil {
			return err
		}

		dividend, err := strconv.Atoi(rawDividend)
		if err != nil {
			return err
		}
		divisor, err := strconv.Atoi(rawDivisor)
		if err != nil {
			return err
		}
		if divisor == 0 {
			return apperror.New(apperror.KindArithmetic, "integer divide by zero")
		}
		return c.JSON(fiber.Map{"result": dividend / divisor})
	}
}

// pathParam returns the percent-decoded value of a route parameter.
// A malformed escape is a number format error since every parameter here is numeric.
func pathParam(c *fiber.Ctx, name string) (string, error) {
	v, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return "", apperror.Wrap(apperror.KindNumberFormat, err)
	}
	return v, nil
}
