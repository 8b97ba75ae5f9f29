// Package observability provides OpenTelemetry tracing for conversions.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans emitted by this module.
const TracerName = "github.com/ajitpratap0/csfs"

// Tracer returns the tracer of the global provider. Until InitTracing is
// called the global provider is a no-op, so spans cost nothing.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Span wraps a trace.Span with attribute batching.
type Span struct {
	span       trace.Span
	attributes []attribute.KeyValue
}

// NewSpan starts a span named operationName.
func NewSpan(ctx context.Context, operationName string) (context.Context, *Span) {
	ctx, span := Tracer().Start(ctx, operationName)
	return ctx, &Span{span: span}
}

// SetAttribute queues an attribute, written when the span ends.
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	case []string:
		attr = attribute.StringSlice(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// AddEvent adds an event to the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Fail records err and marks the span as errored. A nil err is ignored.
func (s *Span) Fail(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End flushes queued attributes and ends the span.
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.End()
}
