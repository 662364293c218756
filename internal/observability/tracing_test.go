package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "flymagine-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "test.op")
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))
}

func TestInitTracingStdout(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:  "flymagine-test",
		Enabled:      true,
		Exporter:     "stdout",
		SamplerRatio: 1.0,
	})
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "test.op")
	assert.True(t, span.SpanContext().IsValid())
	EndSpan(span, nil)

	assert.NoError(t, shutdown(context.Background()))
}
