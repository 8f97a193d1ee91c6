package provider

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/transcribe-mcp/observability"
)

// SpanAttributer is implemented by inputs that describe themselves on the
// provider span, e.g. the audio file being sent.
type SpanAttributer interface {
	SpanAttributes() []attribute.KeyValue
}

// WithTracing returns a Middleware that wraps each Execute call in a span
// named "provider.<name>". Inputs implementing SpanAttributer add their
// attributes to it.
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, serviceName: serviceName}
	}
}

type tracingRR[I, O any] struct {
	inner       RequestResponse[I, O]
	serviceName string
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, "provider."+t.inner.Name())
	defer span.End()

	span.SetAttributes(
		attribute.String(observability.AttrServiceName, t.serviceName),
		attribute.String(observability.AttrOperationName, t.inner.Name()),
	)
	if a, ok := any(input).(SpanAttributer); ok {
		span.SetAttributes(a.SpanAttributes()...)
	}

	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return output, err
}
