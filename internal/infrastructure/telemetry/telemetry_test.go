package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/campushub/campushub/internal/shared/config"
)

func TestSetup_DisabledReturnsNil(t *testing.T) {
	tel, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, "test")
	require.NoError(t, err)
	assert.Nil(t, tel)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetup_EnabledInstallsProvider(t *testing.T) {
	tel, err := Setup(context.Background(), config.TelemetryConfig{
		Enabled:      true,
		ServiceName:  "campushub-test",
		OTLPEndpoint: "127.0.0.1:1",
		Insecure:     true,
		SampleRatio:  1,
	}, "test")
	require.NoError(t, err)
	require.NotNil(t, tel)

	_, span := Tracer().Start(context.Background(), "unit")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ro, ok := span.(sdktrace.ReadOnlySpan)
	require.True(t, ok)
	name, found := ro.Resource().Set().Value(attribute.Key("service.name"))
	require.True(t, found)
	assert.Equal(t, "campushub-test", name.AsString())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = tel.Shutdown(ctx)
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{1, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{0.25, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, samplerFor(tt.ratio).Description())
	}
}
