package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout aborts handlers that exceed the given duration and responds
// with 504 Gateway Timeout. The handler runs in its own goroutine so a hung
// downstream call cannot pin the request forever.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					return c.JSON(http.StatusGatewayTimeout, map[string]string{
						"error": "request timed out",
					})
				}
				return ctx.Err()
			}
		}
	}
}
