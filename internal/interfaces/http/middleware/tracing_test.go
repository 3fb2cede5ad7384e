package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	accountID := uuid.New()
	router := gin.New()
	router.Use(RequestID(), Tracing("rentquote-test", true),
		Auth(AuthConfig{JWTService: newTestJWTService(), AllowAccountHeader: true}), SpanAttributes())
	router.GET("/units/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/health", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/units/42", nil)
	req.Header.Set(AccountHeaderKey, accountID.String())
	router.ServeHTTP(httptest.NewRecorder(), req)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /units/:id", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)

	attrs := map[attribute.Key]string{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, accountID.String(), attrs["account_id"])
	assert.NotEmpty(t, attrs["request_id"])
}

func TestTracing_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(Tracing("rentquote-test", false))
	router.GET("/test", okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
