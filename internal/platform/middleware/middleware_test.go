package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newContext(e *echo.Echo) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	e := echo.New()
	c, rec := newContext(e)

	h := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	rid, _ := c.Get("request_id").(string)
	if rid == "" {
		t.Fatal("expected request_id to be set on context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != rid {
		t.Errorf("response header = %q, want %q", got, rid)
	}
}

func TestRequestIDHonorsInboundHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if rid, _ := c.Get("request_id").(string); rid != "abc-123" {
		t.Errorf("request_id = %q, want abc-123", rid)
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	e := echo.New()
	c, _ := newContext(e)

	called := false
	h := Logger(zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called {
		t.Error("expected inner handler to be called")
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	e := echo.New()
	c, _ := newContext(e)

	h := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})

	err := h(c)
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", he.Code)
	}
}

func TestRequestTimeoutExceeded(t *testing.T) {
	e := echo.New()
	c, rec := newContext(e)

	h := RequestTimeout(20 * time.Millisecond)(func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
		case <-time.After(time.Second):
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
}

func TestRequestTimeoutFastHandler(t *testing.T) {
	e := echo.New()
	c, rec := newContext(e)

	h := RequestTimeout(time.Second)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(1, 2)

	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	var lastErr error
	for i := 0; i < 3; i++ {
		c, _ := newContext(e)
		lastErr = h(c)
	}

	if lastErr == nil {
		t.Fatal("expected third request to be rejected")
	}
	he, ok := lastErr.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %v", lastErr)
	}
}

func TestTokenBucketRefills(t *testing.T) {
	b := newTokenBucket(1, 100)
	if !b.allow() {
		t.Fatal("first request should pass")
	}
	if b.allow() {
		t.Fatal("second request should be blocked")
	}
	time.Sleep(50 * time.Millisecond)
	if !b.allow() {
		t.Error("expected bucket to refill")
	}
}
