package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitTracer_DisabledIsNoop(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "false")
	shutdown := InitTracer(context.Background(), "test")
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampleRatio(t *testing.T) {
	for raw, want := range map[string]float64{"": 1, "0.25": 0.25, "2": 1, "-1": 1, "abc": 1} {
		t.Setenv("OTEL_SAMPLE_RATIO", raw)
		assert.Equal(t, want, sampleRatio(), raw)
	}
}
