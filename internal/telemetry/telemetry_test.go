package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/config"
)

func restoreProvider(t *testing.T) {
	t.Helper()

	previous := otel.GetTracerProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
	})
}

func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("Stdout exporter writes finished spans", func(t *testing.T) {
		restoreProvider(t)

		// Given: tracing to a buffer
		var out bytes.Buffer
		shutdown, err := Setup(ctx, config.Tracing{Exporter: config.ExporterStdout, ServiceName: "tictactoe-test"}, &out)
		require.NoError(t, err)

		// When: a span is started through the global API and flushed
		_, span := otel.Tracer("telemetry-test").Start(ctx, "telemetry.span")
		assert.True(t, span.IsRecording())
		span.End()
		require.NoError(t, shutdown(ctx))

		// Then: the exporter saw it
		assert.Contains(t, out.String(), "telemetry.span")
		assert.Contains(t, out.String(), "tictactoe-test")
	})

	t.Run("No exporter still records spans", func(t *testing.T) {
		restoreProvider(t)

		shutdown, err := Setup(ctx, config.Tracing{Exporter: config.ExporterNone}, nil)
		require.NoError(t, err)

		_, span := otel.Tracer("telemetry-test").Start(ctx, "telemetry.none")
		assert.True(t, span.IsRecording())
		assert.True(t, span.SpanContext().IsValid())
		span.End()

		require.NoError(t, shutdown(ctx))
	})

	t.Run("Unknown exporter", func(t *testing.T) {
		restoreProvider(t)

		_, err := Setup(ctx, config.Tracing{Exporter: "zipkin"}, nil)

		require.Error(t, err)
	})
}
