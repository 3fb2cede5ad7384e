package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentquote/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps caller supplied request IDs
const MaxRequestIDLength = 128

// Tracing wraps otelgin. Span names follow "METHOD /route/:param".
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/metrics"
		}),
	)
}

// SpanAttributes adds the request ID and the authenticated account and
// user to the request span, and marks error responses. Register it after
// Auth.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		if requestID := c.GetString(logger.GinRequestIDKey); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if accountID := c.GetString(logger.GinAccountIDKey); accountID != "" {
			span.SetAttributes(attribute.String("account_id", accountID))
		}
		if userID := c.GetString(logger.GinUserIDKey); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
