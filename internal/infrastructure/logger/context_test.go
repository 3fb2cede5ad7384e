package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetAccountID(ctx))
	assert.Empty(t, GetUserID(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithAccountID(ctx, "acct-1")
	ctx = WithUserID(ctx, "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "acct-1", GetAccountID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestContextLogger_InjectsFields(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-9")
	ctx = WithAccountID(ctx, "acct-9")

	L(ctx).With(zap.String("invoice", "RINV-202501-0001")).Info("invoice generated")

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "acct-9", fields["account_id"])
	assert.Equal(t, "RINV-202501-0001", fields["invoice"])
	assert.NotContains(t, fields, "user_id")
	assert.NotContains(t, fields, "trace_id")
}

func TestContextLogger_TraceCorrelation(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	traceID, _ := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	spanID, _ := trace.SpanIDFromHex("b7ad6b7169203331")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	WithLogger(ctx, zap.New(core)).Warn("slow render")

	require.Len(t, recorded.All(), 1)
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", fields["trace_id"])
	assert.Equal(t, "b7ad6b7169203331", fields["span_id"])
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", GetTraceID(ctx))
}
