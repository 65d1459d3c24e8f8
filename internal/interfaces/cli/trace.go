package cli

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var cliTracer = otel.Tracer("fpl-optimizer/internal/interfaces/cli")

// startCommandSpan opens the root span of one command run. Use case spans
// attach to it.
func startCommandSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return cliTracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
}
