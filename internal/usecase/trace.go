package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/riskibarqy/fpl-optimizer/internal/usecase")

// startSpan opens "usecase.<op>" under the caller's span. Without a valid
// parent, as in CLI runs with telemetry off, the parent's no-op span is
// returned and nothing is recorded.
func startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return tracer.Start(ctx, "usecase."+op, trace.WithAttributes(attrs...))
}

func managerAttr(id int64) attribute.KeyValue {
	return attribute.Int64("fpl.manager_id", id)
}
