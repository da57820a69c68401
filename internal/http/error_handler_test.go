package handlers_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"mathiphone/internal/http/handlers"
)

func newErrApp() *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        handlers.Views(templatesDir),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/api/v1/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Use(func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	return app
}

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := newErrApp()

	var body string
	entries := captureLogs(t, func() {
		resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
		if err != nil {
			t.Fatalf("test request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.StatusCode)
		}
		body = readBody(t, resp)
	})
	if !strings.Contains(body, "Algo salió mal") {
		t.Fatalf("friendly message missing; body=%s", body)
	}
	if strings.Contains(body, "db timeout") || strings.Contains(body, "secret") {
		t.Fatalf("internal details leaked to user; body=%s", body)
	}
	if _, ok := findLog(entries, "server.error"); !ok {
		t.Fatalf("server.error not logged: %+v", entries)
	}
}

func TestErrorHandlerJSONUnderAPI(t *testing.T) {
	app := newErrApp()
	var body string
	captureLogs(t, func() {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/err", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Fatalf("content-type %q", ct)
		}
		body = readBody(t, resp)
	})
	if strings.Contains(body, "secret") || !strings.Contains(body, `"error"`) {
		t.Fatalf("body=%s", body)
	}
}

func TestErrorHandlerNotFound(t *testing.T) {
	app := newErrApp()
	var body string
	captureLogs(t, func() {
		resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
		body = readBody(t, resp)
	})
	if !strings.Contains(body, "Página no encontrada") {
		t.Fatalf("body=%s", body)
	}
}
