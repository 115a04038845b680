package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("CoreTaxSentiment/internal/usecase")

// stage runs fn inside a span named after the pipeline step. Spans are no-ops
// until a tracer provider is installed.
func stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func setRows(ctx context.Context, n int) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("rows", n))
}
