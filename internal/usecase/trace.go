package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("brawl-collector/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// startRunSpan opens the root span for a collection pass. The batch entry
// point has no inbound request to inherit a trace from, so the span is
// started unconditionally; without a configured provider it is a noop.
func startRunSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return usecaseTracer.Start(ctx, name)
}

// startUsecaseSpan opens a child span for a pipeline stage. Stages only
// record when the run span above them does, so a context without a valid
// span short-circuits to the shared noop.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name)
}
