package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"userapi/docs"
	"userapi/internal/http/handler"
	"userapi/internal/http/middleware"
	"userapi/internal/service"
)

// Registry is where request metrics are registered and read back from for /metrics.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// Deps are the collaborators the HTTP server is built from.
type Deps struct {
	Logger   *zap.Logger
	DB       *sql.DB // optional; /health pings it when set
	Users    service.UserService
	Registry Registry
	AppName  string

	// PublicHost and PublicScheme are advertised in the Swagger document.
	// Empty host lets Swagger UI use the page's own host; scheme defaults to http.
	PublicHost   string
	PublicScheme string
}

// New builds the Fiber app: error handler, middleware chain and routes.
//
// Middleware order matters. recover sits innermost so panics become errors
// before the metrics and logging middleware resolve them through the
// app's error handler.
func New(d Deps) (*fiber.App, error) {
	if d.Users == nil {
		return nil, errors.New("server: user service is required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}

	prom, err := middleware.NewPrometheusMiddleware(d.Registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               d.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler(d.Logger, prom),
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(d.Logger))
	app.Use(prom.Handler())
	app.Use(recover.New())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	configureSwagger(d.PublicHost, d.PublicScheme)
	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app, d.DB, d.Users)

	return app, nil
}

// configureSwagger sets the advertised host and scheme once, before the
// app serves requests, since docs.SwaggerInfo is shared by all handlers.
func configureSwagger(host, scheme string) {
	if scheme == "" {
		scheme = "http"
	}
	docs.SwaggerInfo.Host = host
	docs.SwaggerInfo.Schemes = []string{scheme}
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully
// within timeout.
func Run(ctx context.Context, app *fiber.App, addr string, timeout time.Duration, l *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http_server_listening", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("http_server_shutdown", zap.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
