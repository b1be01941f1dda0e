package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	applogger "github.com/vaquev01/gmpm-sub001/pkg/logger"
)

// RequestLogging logs one structured line per request. A nil logger
// disables logging without changing the middleware chain.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if l == nil {
				return err
			}

			req := c.Request()
			l.Debug("http request",
				applogger.String("method", req.Method),
				applogger.String("uri", req.RequestURI),
				applogger.String("remote", c.RealIP()),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("took", time.Since(start)),
			)
			return err
		}
	}
}
