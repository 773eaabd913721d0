package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/rickylandino/val-builder-api"

var tracer trace.Tracer

// SetTracer sets the tracer used by StartSpan. Until it is called spans come
// from the global provider.
func SetTracer(t trace.Tracer) {
	tracer = t
}

// StartSpan starts a new span with the given name and returns the context and span.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	if tracer == nil {
		return otel.Tracer(instrumentationName).Start(ctx, spanName)
	}
	return tracer.Start(ctx, spanName)
}

// activeSpan returns the recording span on ctx, or nil.
func activeSpan(ctx context.Context) trace.Span {
	if tracer == nil {
		return nil
	}
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	return span
}

// GetTraceID returns the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	span := activeSpan(ctx)
	if span == nil {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// GetSpanID returns the span ID from the context.
func GetSpanID(ctx context.Context) string {
	span := activeSpan(ctx)
	if span == nil {
		return ""
	}
	return span.SpanContext().SpanID().String()
}

// RecordError marks the span on ctx as failed.
func RecordError(ctx context.Context, err error) {
	if span := activeSpan(ctx); span != nil && err != nil {
		span.RecordError(err)
	}
}
