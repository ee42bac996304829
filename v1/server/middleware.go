package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tasksearch/tasksearch/v1/logger"
	"github.com/tasksearch/tasksearch/v1/metrics"
	"github.com/tasksearch/tasksearch/v1/tracer"
)

// unmatchedRoute labels requests that matched no route, keeping metric
// cardinality bounded.
const unmatchedRoute = "unmatched"

// securityHeaders sets the baseline browser hardening headers on every response.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		c.Next()
	}
}

// corsHandler allows any origin to call the API.
func corsHandler() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Traceparent", "Tracestate"},
		MaxAge:          12 * time.Hour,
	})
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}

// tracing continues any incoming W3C trace and wraps the request in a span
// named after the matched route.
func tracing(tr *tracer.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		carrier := make(map[string]string, len(c.Request.Header))
		for k, v := range c.Request.Header {
			if len(v) > 0 {
				carrier[strings.ToLower(k)] = v[0]
			}
		}

		ctx := tr.SetCarrierOnContext(c.Request.Context(), carrier)
		ctx, span := tr.StartSpan(ctx, c.Request.Method+" "+routeOf(c))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		tr.SetAttributes(span, map[string]interface{}{
			"http.method":      c.Request.Method,
			"http.route":       routeOf(c),
			"http.status_code": c.Writer.Status(),
		})
	}
}

// requestLogger writes one structured line per request.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.WarnWithContext(c.Request.Context(), "HTTP request", nil, fields)
			return
		}
		log.InfoWithContext(c.Request.Context(), "HTTP request", nil, fields)
	}
}

// requestMetrics counts requests by status, times them by route and tracks
// how many are in flight per route.
func requestMetrics(mc metrics.MetricsCollector) gin.HandlerFunc {
	inFlight := mc.CreateGauge("requests_in_flight", "HTTP requests currently being served", []string{"endpoint"})

	return func(c *gin.Context) {
		start := time.Now()
		route := routeOf(c)
		inFlight.WithLabelValues(route).Inc()
		defer inFlight.WithLabelValues(route).Dec()

		c.Next()

		mc.IncrementRequests(strconv.Itoa(c.Writer.Status()))
		mc.RecordRequestDuration(start, route)
	}
}
