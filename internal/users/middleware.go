package users

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Aleph-Alpha/schema-management/v1/logger"
	"github.com/Aleph-Alpha/schema-management/v1/metrics"
	"github.com/Aleph-Alpha/schema-management/v1/tracer"
)

// unmatchedRoute labels requests that matched no registered route.
const unmatchedRoute = "unmatched"

// RequestObserver returns middleware that wraps each request in a span,
// records Prometheus request metrics and writes one access log entry.
// m and t may be nil.
func RequestObserver(log logger.Logger, m metrics.MetricsCollector, t *tracer.Tracer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}

			ctx := req.Context()
			if t != nil {
				carrier := map[string]string{}
				for _, h := range []string{"traceparent", "tracestate"} {
					if v := req.Header.Get(h); v != "" {
						carrier[h] = v
					}
				}
				ctx = t.SetCarrierOnContext(ctx, carrier)
			}

			var endSpan func(status int)
			if t != nil {
				spanCtx, span := t.StartSpan(ctx, req.Method+" "+route)
				ctx = spanCtx
				c.SetRequest(req.WithContext(ctx))
				endSpan = func(status int) {
					t.SetAttributes(span, map[string]interface{}{
						"http.method":      req.Method,
						"http.route":       route,
						"http.status_code": status,
					})
					if status >= http.StatusInternalServerError {
						t.RecordErrorOnSpan(span, fmt.Errorf("%d %s", status, http.StatusText(status)))
					}
					span.End()
				}
			}

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			if endSpan != nil {
				endSpan(status)
			}
			if m != nil {
				m.IncrementRequests(req.Method, route, strconv.Itoa(status))
				m.RecordRequestDuration(start, req.Method, route)
			}

			fields := map[string]interface{}{
				"method":      req.Method,
				"route":       route,
				"path":        req.URL.Path,
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if status >= http.StatusInternalServerError {
				log.ErrorWithContext(ctx, "HTTP request failed", nil, fields)
			} else {
				log.InfoWithContext(ctx, "HTTP request", nil, fields)
			}
			return nil
		}
	}
}
