package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/propertyhub/backend/internal/infrastructure/telemetry"
)

var (
	attrHTTPMethod      = attribute.Key("http.method")
	attrHTTPRoute       = attribute.Key("http.route")
	attrHTTPStatusClass = attribute.Key("http.status_class")
)

// HTTPDurationBuckets are latency boundaries in seconds
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// routeSubjects maps the resource segment of a route to the span attribute
// its :id parameter is recorded under
var routeSubjects = map[string]attribute.Key{
	"tenants":  telemetry.AttrTenantID,
	"presets":  telemetry.AttrPresetID,
	"sessions": telemetry.AttrSessionID,
}

// Tracing is otelgin when enabled and a pass-through otherwise
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName)
}

// SpanEnricher tags the server span with the request ID, the authenticated
// user and the tenant, preset or session the route addresses. 5xx responses
// mark the span failed. It must run after Tracing and RequestID.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if key, ok := routeSubject(c.FullPath()); ok {
			if id := c.Param("id"); id != "" {
				span.SetAttributes(key.String(id))
			}
		}

		c.Next()

		// JWT runs on the route group, so the user is only known afterwards
		if userID := GetJWTUserID(c); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// routeSubject finds the resource segment directly in front of "/:id"
func routeSubject(route string) (attribute.Key, bool) {
	head, _, found := strings.Cut(route, "/:id")
	if !found {
		return "", false
	}
	key, ok := routeSubjects[head[strings.LastIndexByte(head, '/')+1:]]
	return key, ok
}

// HTTPMetrics counts requests and records latency per route. Status codes
// are folded into classes ("2xx", "4xx") and unmatched paths share the
// "unmatched" route label.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	requests, err := telemetry.NewCounter(meter, "http_server_request_total", "Total number of HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []attribute.KeyValue{
			attrHTTPMethod.String(c.Request.Method),
			attrHTTPRoute.String(route),
			attrHTTPStatusClass.String(statusClass(c.Writer.Status())),
		}
		ctx := c.Request.Context()
		requests.Inc(ctx, attrs...)
		duration.RecordSince(ctx, start, attrs...)
	}, nil
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return string(rune('0'+status/100)) + "xx"
}
