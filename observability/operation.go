package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one tool call: a span plus the tool metrics.
type Operation struct {
	ServiceName string
	Tool        string
	RequestID   string
	StartTime   time.Time
	Metrics     *Metrics
}

// NewOperation starts timing a tool call. A nil metrics skips recording.
func NewOperation(serviceName, tool, requestID string, metrics *Metrics) *Operation {
	return &Operation{
		ServiceName: serviceName,
		Tool:        tool,
		RequestID:   requestID,
		StartTime:   time.Now(),
		Metrics:     metrics,
	}
}

// Begin starts the operation span named "tool.<name>".
func (op *Operation) Begin(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, "tool."+op.Tool)
	span.SetAttributes(
		attribute.String(AttrServiceName, op.ServiceName),
		attribute.String(AttrTool, op.Tool),
		attribute.String(AttrRequestID, op.RequestID),
	)
	if op.Metrics != nil {
		op.Metrics.RecordToolStart(ctx, op.Tool)
	}
	return ctx, span
}

// End closes the span and records the outcome.
func (op *Operation) End(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(op.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if op.Metrics != nil {
		op.Metrics.RecordToolEnd(ctx, op.Tool, status, duration)
	}
}
