package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kstack-dev/content-service/internal/observability"
	apperrors "github.com/kstack-dev/content-service/pkg/util"
)

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), time.Second)
	return app
}

func performRequest(t *testing.T, app *fiber.App, path string) (int, errorBody) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp.StatusCode, body
}

func TestErrorMiddlewareKeepsHandlerStatuses(t *testing.T) {
	app := newTestApp(t)
	app.Get("/malformed", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	})
	app.Get("/unknown-kind", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusNotFound, "unknown content kind")
	})

	status, body := performRequest(t, app, "/malformed")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %q", body.Error.Code)
	}
	if body.Message != "email and password required" {
		t.Fatalf("expected handler message preserved, got %q", body.Message)
	}
	if body.Success {
		t.Fatal("expected success=false")
	}

	status, body = performRequest(t, app, "/unknown-kind")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %q", body.Error.Code)
	}
}

func TestErrorMiddlewareRendersDomainErrors(t *testing.T) {
	app := newTestApp(t)
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("faq", map[string]any{"id": "x"})
	})
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("at least one translation required", nil)
	})

	status, body := performRequest(t, app, "/missing")
	if status != http.StatusNotFound || body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected 404 NOT_FOUND, got %d %q", status, body.Error.Code)
	}

	status, body = performRequest(t, app, "/invalid")
	if status != http.StatusBadRequest || body.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected 400 VALIDATION_FAILED, got %d %q", status, body.Error.Code)
	}
}

func TestErrorMiddlewareRecoversPanics(t *testing.T) {
	app := newTestApp(t)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("handler exploded")
	})

	status, body := performRequest(t, app, "/boom")
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("expected INTERNAL_ERROR, got %q", body.Error.Code)
	}
}

func TestCodeForStatus(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, "VALIDATION_FAILED"},
		{http.StatusUnauthorized, "UNAUTHORIZED"},
		{http.StatusForbidden, "FORBIDDEN"},
		{http.StatusNotFound, "NOT_FOUND"},
		{http.StatusConflict, "CONFLICT"},
		{http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{http.StatusMethodNotAllowed, "BAD_REQUEST"},
		{http.StatusBadGateway, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		if got := codeForStatus(tc.status); got != tc.want {
			t.Fatalf("codeForStatus(%d) = %q, want %q", tc.status, got, tc.want)
		}
	}
}
