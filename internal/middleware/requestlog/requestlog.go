package requestlog

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/metrics"
)

// Middleware puts a request-scoped logger into the context and logs one line
// per request. Place it after echo's RequestID middleware.
func Middleware(base *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			l := base.With(
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", req.Method,
				"path", req.URL.Path,
			)
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()

			fields := []any{"status", status, "route", route, "duration_ms", time.Since(start).Milliseconds()}
			switch {
			case status >= 500:
				l.Errorw("request_done", fields...)
			case status >= 400:
				l.Warnw("request_done", fields...)
			default:
				l.Infow("request_done", fields...)
			}
			return nil
		}
	}
}
