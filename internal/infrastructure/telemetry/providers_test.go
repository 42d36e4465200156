package telemetry

import (
	"context"
	"testing"

	"github.com/dripnest/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.TelemetryConfig{ServiceName: "storefront-test"}

	tp, err := NewTracerProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	tp.EnableSpanProfiles()
	assert.False(t, tp.SpanProfilesEnabled())
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, cfg, nil)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, cfg, nil)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.False(t, lp.Core().Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(ctx))

	p, err := NewProfiler(cfg, nil)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestMeterProvider_RequiresMasterSwitch(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), config.TelemetryConfig{MetricsEnabled: true}, nil)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
}

func TestNewProfiler_RequiresEndpoint(t *testing.T) {
	_, err := NewProfiler(config.TelemetryConfig{ProfilingEnabled: true}, zap.NewNop())
	assert.ErrorIs(t, err, errPyroscopeEndpoint)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "ParentBased{root:AlwaysOnSampler"},
		{2, "ParentBased{root:AlwaysOnSampler"},
		{0, "ParentBased{root:AlwaysOffSampler"},
		{-1, "ParentBased{root:AlwaysOffSampler"},
		{0.25, "ParentBased{root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, Sampler(tt.ratio).Description(), tt.want)
	}
	var _ sdktrace.Sampler = Sampler(0.5)
}

func TestExportLevel(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, exportLevel(""))
	assert.Equal(t, zapcore.InfoLevel, exportLevel("verbose"))
	assert.Equal(t, zapcore.WarnLevel, exportLevel("warn"))
	assert.Equal(t, zapcore.DebugLevel, exportLevel("debug"))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	logger := zap.New(core).With(zap.String("component", "checkout"))

	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept too")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.Equal(t, "checkout", logs.All()[0].ContextMap()["component"])
}
