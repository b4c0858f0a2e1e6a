// Package observability provides OpenTelemetry tracing for export and
// import runs. Structured logging lives in pkg/logger and Prometheus
// metrics in pkg/metrics; this package covers spans only.
package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var (
	// Global tracer instance
	tracer trace.Tracer

	// Initialization lock
	initOnce sync.Once
)

// TracingConfig contains tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	SamplingRate   float64
	ExporterType   string // "stdout"
	BatchTimeout   time.Duration
	MaxExportBatch int
	MaxQueueSize   int
}

// Initialize sets up the tracing provider and global propagators.
// It is safe to call more than once; only the first call takes effect.
func Initialize(config TracingConfig) error {
	var err error

	initOnce.Do(func() {
		err = initTracing(config)
		if err != nil {
			return
		}

		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	})

	return err
}

// Tracer returns the global tracer. Before Initialize is called this
// falls back to the ambient provider, which is a no-op by default.
func Tracer() trace.Tracer {
	if tracer != nil {
		return tracer
	}
	return otel.Tracer("monograph")
}

// Span represents a tracing span with batched attribute recording
type Span struct {
	span       trace.Span
	startTime  time.Time
	attributes []attribute.KeyValue
}

// NewSpan creates a new span under the global tracer
func NewSpan(ctx context.Context, operationName string) (context.Context, *Span) {
	ctx, span := Tracer().Start(ctx, operationName)

	return ctx, &Span{
		span:      span,
		startTime: time.Now(),
	}
}

// SetAttribute adds an attribute to the span (batched for performance)
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
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// AddEvent adds an event to the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetStatus sets the span status
func (s *Span) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}

// End flushes batched attributes and ends the span
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.End()
}

// RunTracer provides tracing utilities scoped to one graph run
type RunTracer struct {
	graph  string
	runID  string
	tracer trace.Tracer
}

// NewRunTracer creates a tracer for one export or import run
func NewRunTracer(graph, runID string) *RunTracer {
	return &RunTracer{
		graph:  graph,
		runID:  runID,
		tracer: Tracer(),
	}
}

// StartSpan starts a run-scoped span
func (rt *RunTracer) StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	operationName := fmt.Sprintf("monograph.%s.%s", rt.graph, operation)
	ctx, span := NewSpan(ctx, operationName)

	span.SetAttribute("graph.name", rt.graph)
	span.SetAttribute("run.id", rt.runID)
	span.SetAttribute("run.operation", operation)

	return ctx, span
}

// TraceCollection traces one collection pass within a run
func (rt *RunTracer) TraceCollection(ctx context.Context, collection string, operation string, fn func(context.Context) error) error {
	ctx, span := rt.StartSpan(ctx, operation)
	defer span.End()

	span.SetAttribute("collection.name", collection)

	err := fn(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttribute("error", true)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return err
}

// TraceBatch traces a single batch flush
func (rt *RunTracer) TraceBatch(ctx context.Context, collection string, batchSize int, fn func(context.Context) error) error {
	ctx, span := rt.StartSpan(ctx, "flush")
	defer span.End()

	span.SetAttribute("collection.name", collection)
	span.SetAttribute("batch.size", batchSize)

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	span.SetAttribute("batch.duration_ms", duration.Milliseconds())

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttribute("error", true)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return err
}
