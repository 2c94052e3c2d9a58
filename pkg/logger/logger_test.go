package logger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-service/internal/middleware"
	"catalog-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func loggedRequestID(t *testing.T, logs *observer.ObservedLogs) string {
	t.Helper()
	entries := logs.All()
	if len(entries) == 0 {
		t.Fatalf("expected at least one log entry")
	}
	id, ok := entries[len(entries)-1].ContextMap()["request_id"].(string)
	if !ok {
		t.Fatalf("request_id field missing: %+v", entries[len(entries)-1].Context)
	}
	return id
}

func TestMiddlewareUsesContextRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	e := echo.New()
	// Set only the context value, never a header, so the lookup cannot
	// depend on header write order.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(logger.RequestIDKey, "ctx-id-123")
			return next(c)
		}
	})
	e.Use(logger.Middleware(zap.New(core)))
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if got := loggedRequestID(t, logs); got != "ctx-id-123" {
		t.Fatalf("expected request_id ctx-id-123, got %s", got)
	}
}

func TestMiddlewarePropagatesGeneratedRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	e := echo.New()
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(zap.New(core)))
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	got := loggedRequestID(t, logs)
	if got == "" {
		t.Fatalf("expected a generated request id in the log")
	}
	if header := rec.Header().Get(logger.RequestIDKey); header != got {
		t.Fatalf("logged id %s does not match response header %s", got, header)
	}
}

func TestMiddlewareFallsBackToRequestHeader(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	e := echo.New()
	e.Use(logger.Middleware(zap.New(core)))
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(logger.RequestIDKey, "hdr-id-456")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := loggedRequestID(t, logs); got != "hdr-id-456" {
		t.Fatalf("expected request_id hdr-id-456, got %s", got)
	}
}
