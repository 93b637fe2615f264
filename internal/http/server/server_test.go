package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"userapi/internal/http/middleware"
	"userapi/internal/model"
	"userapi/internal/repository/memory"
	"userapi/internal/service"
	"userapi/internal/store"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	users, err := store.New(memory.Users())
	require.NoError(t, err)

	app, err := New(Deps{
		Users:    service.NewUserService(users),
		Registry: prometheus.NewRegistry(),
		AppName:  "userapi-test",
	})
	require.NoError(t, err)
	return app
}

func get(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	return resp
}

func TestNew_RequiresUserService(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestServer_ShowUser(t *testing.T) {
	app := newTestServer(t)

	resp := get(t, app, "/api/app/show/3")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	var u model.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&u))
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "Jane", u.FirstName)
}

func TestServer_ErrorBodies(t *testing.T) {
	app := newTestServer(t)

	tests := []struct {
		target string
		status int
		label  string
	}{
		{"/api/app/", fiber.StatusBadRequest, "Invalid number format."},
		{"/api/app/show/0", fiber.StatusNotFound, "User not found."},
		{"/api/app/show/999", fiber.StatusNotFound, "User not found."},
		{"/api/app/divide/10/0", fiber.StatusInternalServerError, "Division by zero is not allowed."},
		{"/no/such/route", fiber.StatusNotFound, "Resource not found."},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp := get(t, app, tt.target)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

			var body model.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.label, body.Error)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.target, body.Path)
		})
	}
}

func TestServer_RecoversPanics(t *testing.T) {
	app := newTestServer(t)
	app.Get("/panic/nil", func(c *fiber.Ctx) error {
		var u *model.User
		return c.SendString(u.FirstName)
	})

	resp := get(t, app, "/panic/nil")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Null pointer exception occurred.", body.Error)
}

func TestServer_Metrics(t *testing.T) {
	app := newTestServer(t)

	get(t, app, "/api/app/show/1")
	get(t, app, "/api/app/show/999")

	resp := get(t, app, middleware.MetricsPath)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(b)

	assert.True(t, strings.Contains(text, `http_requests_total{method="GET",path="/api/app/show/:id?",status="200"} 1`), text)
	assert.True(t, strings.Contains(text, `http_requests_total{method="GET",path="/api/app/show/:id?",status="404"} 1`), text)
	assert.True(t, strings.Contains(text, `http_errors_total{kind="user_not_found",status="404"} 1`), text)
}

func TestServer_Health(t *testing.T) {
	app := newTestServer(t)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/health").StatusCode)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/healthz").StatusCode)
}

func TestServer_ErrorsMarkSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	app := newTestServer(t)
	resp := get(t, app, "/api/app/show/999")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	spans := sr.Ended()
	require.NotEmpty(t, spans)
	span := spans[len(spans)-1]
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "user_not_found", span.Status().Description)
	require.NotEmpty(t, span.Events())
	assert.Equal(t, "exception", span.Events()[0].Name)
}

func TestServer_SwaggerDoc(t *testing.T) {
	users, err := store.New(memory.Users())
	require.NoError(t, err)

	app, err := New(Deps{
		Users:        service.NewUserService(users),
		Registry:     prometheus.NewRegistry(),
		PublicHost:   "api.example.com",
		PublicScheme: "https",
	})
	require.NoError(t, err)

	// Concurrent reads see the host and scheme fixed at construction.
	var wg sync.WaitGroup
	bodies := make([]string, 8)
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
			req.Host = "other.example.com"
			resp, err := app.Test(req)
			if err != nil {
				return
			}
			b, _ := io.ReadAll(resp.Body)
			bodies[i] = string(b)
		}(i)
	}
	wg.Wait()

	for _, body := range bodies {
		assert.Contains(t, body, `"host": "api.example.com"`)
		assert.Contains(t, body, `"https"`)
		assert.NotContains(t, body, "other.example.com")
	}
}
