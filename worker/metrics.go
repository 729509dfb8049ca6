package worker

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for generation requests.
var (
	tracer = otel.Tracer("traverse.worker")
	meter  = otel.Meter("traverse.worker")
)

// Metrics for generation requests.
var (
	requestLatency metric.Float64Histogram
	requestTotal   metric.Int64Counter
	chunkFallbacks metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		requestLatency, err = meter.Float64Histogram(
			"traverse_request_duration_seconds",
			metric.WithDescription("Duration of generation requests"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		requestTotal, err = meter.Int64Counter(
			"traverse_request_total",
			metric.WithDescription("Total number of generation requests"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		chunkFallbacks, err = meter.Int64Counter(
			"traverse_chunk_fallback_total",
			metric.WithDescription("Sequence diagrams returned unchunked after a chunking failure"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startRequestSpan creates a span for one generation request.
func startRequestSpan(ctx context.Context, kind, requestID string, sources int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Worker."+kind,
		trace.WithAttributes(
			attribute.String("traverse.request_kind", kind),
			attribute.String("traverse.request_id", requestID),
			attribute.Int("traverse.source_count", sources),
		),
	)
}

// setRequestSpanResult sets the outcome attributes on a request span.
func setRequestSpanResult(span trace.Span, err error) {
	span.SetAttributes(attribute.Bool("traverse.success", err == nil))
	if err != nil {
		span.RecordError(err)
	}
}

// recordRequestMetrics records duration and outcome of a generation request.
func recordRequestMetrics(ctx context.Context, kind string, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("success", success),
	)

	requestLatency.Record(ctx, duration.Seconds(), attrs)
	requestTotal.Add(ctx, 1, attrs)
}

// recordChunkFallback records a sequence diagram that could not be chunked.
func recordChunkFallback(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	chunkFallbacks.Add(ctx, 1)
}
