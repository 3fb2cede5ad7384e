package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type exportedRecord struct {
	body     string
	severity otellog.Severity
}

type recordingExporter struct {
	mu      sync.Mutex
	records []exportedRecord
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, exportedRecord{body: r.Body().AsString(), severity: r.Severity()})
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) exported() []exportedRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]exportedRecord(nil), e.records...)
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	for name, cfg := range map[string]config.TelemetryConfig{
		"telemetry off":  {Enabled: false, LogsEnabled: true},
		"log export off": {Enabled: true, LogsEnabled: false, CollectorEndpoint: "localhost:4317"},
	} {
		t.Run(name, func(t *testing.T) {
			lp, err := NewLoggerProvider(ctx, cfg, nil)
			require.NoError(t, err)
			assert.False(t, lp.Enabled())

			base := zap.NewNop()
			assert.Same(t, base, lp.Bridge(base))
			assert.NoError(t, lp.ForceFlush(ctx))
			assert.NoError(t, lp.Shutdown(ctx))
		})
	}
}

func TestLoggerProvider_BridgeTeesAtBaseLevel(t *testing.T) {
	ctx := context.Background()
	exporter := &recordingExporter{}
	res, err := serviceResource(config.TelemetryConfig{ServiceName: "rentquote-test"})
	require.NoError(t, err)
	lp := &LoggerProvider{
		provider: newSDKLoggerProvider(res, sdklog.NewSimpleProcessor(exporter)),
		logger:   zap.NewNop(),
		config:   config.TelemetryConfig{ServiceName: "rentquote-test"},
	}
	t.Cleanup(func() { _ = lp.Shutdown(ctx) })

	core, observed := observer.New(zapcore.WarnLevel)
	log := lp.Bridge(zap.New(core))

	log.Info("invoice generated")
	log.Warn("rent overdue", zap.String("tenant", "Aishath Shifa"))
	require.NoError(t, lp.ForceFlush(ctx))

	assert.Equal(t, 1, observed.Len(), "the base core keeps its own output")
	records := exporter.exported()
	require.Len(t, records, 1, "entries below the base level are not exported")
	assert.Equal(t, "rent overdue", records[0].body)
	assert.Equal(t, otellog.SeverityWarn, records[0].severity)
}

func TestLevelFilterCore(t *testing.T) {
	inner, _ := observer.New(zapcore.DebugLevel)
	core := newLevelFilterCore(inner, zapcore.ErrorLevel)

	assert.False(t, core.Enabled(zapcore.WarnLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
	assert.Nil(t, core.Check(zapcore.Entry{Level: zapcore.InfoLevel}, nil))
	assert.False(t, core.With([]zapcore.Field{zap.String("k", "v")}).Enabled(zapcore.InfoLevel))
}
