package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSpanWithoutProvider(t *testing.T) {
	_, span := NewSpan(context.Background(), "noop")
	span.SetAttribute("rows", 3)
	span.Fail(errors.New("ignored"))
	span.Fail(nil)
	span.End()
}

func TestInitTracingExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Output = &buf
	shutdown, err := InitTracing(cfg)
	require.NoError(t, err)

	ctx, span := NewSpan(context.Background(), "csfs.convert")
	span.SetAttribute("input", "list.c")
	span.SetAttribute("workers", 4)
	span.SetAttribute("peel", []string{"5s", "4d-"})
	_, child := NewSpan(ctx, "csfs.wave")
	child.Fail(errors.New("chunk 2 failed"))
	child.End()
	span.End()

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "csfs.convert")
	assert.Contains(t, out, "csfs.wave")
	assert.Contains(t, out, "chunk 2 failed")
	assert.Contains(t, out, "list.c")
}
