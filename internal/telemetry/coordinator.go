package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CoordinatorHooks records every estimate write: its duration and outcome,
// plus a separate counter for rolled back invariant violations.
type CoordinatorHooks struct {
	ops       metric.Int64Counter
	duration  metric.Float64Histogram
	conflicts metric.Int64Counter
}

// NewCoordinatorHooks creates the instruments on meter, normally
// otel.Meter("estimator.coordinator").
func NewCoordinatorHooks(meter metric.Meter) (*CoordinatorHooks, error) {
	ops, err := meter.Int64Counter(
		"coordinator.operation.count",
		metric.WithDescription("Number of estimate write operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"coordinator.operation.duration",
		metric.WithDescription("Duration of estimate write operations including commit"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	conflicts, err := meter.Int64Counter(
		"coordinator.invariant.violations",
		metric.WithDescription("Operations rolled back because a running total would break"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &CoordinatorHooks{ops: ops, duration: duration, conflicts: conflicts}, nil
}

func (h *CoordinatorHooks) ObserveOperation(ctx context.Context, op, status string, dur time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("status", status),
	)
	h.ops.Add(ctx, 1, attrs)
	h.duration.Record(ctx, float64(dur.Microseconds())/1000, attrs)
}

func (h *CoordinatorHooks) IncConflict(ctx context.Context, op string) {
	h.conflicts.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
}
