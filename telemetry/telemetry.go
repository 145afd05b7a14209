// Package telemetry carries the logging, metrics and tracing hooks of the
// generator. Implementations delegate to Clue and OpenTelemetry; the noop
// variants are used by tests and by callers that do not configure telemetry.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Instrumentation scope used for meters and tracers.
const scope = "goa.design/torchgen/codegen"

// Metric names recorded by the generator.
const (
	// MetricNodesEmitted counts emitted graph nodes, tagged with the variant
	// and the dispatch path ("override" or the operator classification).
	MetricNodesEmitted = "torchgen.nodes.emitted"
	// MetricGenerateDuration records the duration of a generation pass.
	MetricGenerateDuration = "torchgen.generate.duration"
	// MetricGenerateFailures counts failed generation passes.
	MetricGenerateFailures = "torchgen.generate.failures"
)

type (
	// Logger captures structured logging. The interface is small so tests
	// can provide lightweight stubs.
	Logger interface {
		Debug(ctx context.Context, msg string, keyvals ...any)
		Info(ctx context.Context, msg string, keyvals ...any)
		Warn(ctx context.Context, msg string, keyvals ...any)
		Error(ctx context.Context, msg string, keyvals ...any)
	}

	// Metrics exposes counter and timer helpers.
	Metrics interface {
		IncCounter(name string, value float64, tags ...string)
		RecordTimer(name string, duration time.Duration, tags ...string)
	}

	// Tracer abstracts span creation.
	Tracer interface {
		Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
	}

	// Span is an in-flight tracing span.
	Span interface {
		End(opts ...trace.SpanEndOption)
		AddEvent(name string, attrs ...any)
		SetStatus(code codes.Code, description string)
		RecordError(err error, opts ...trace.EventOption)
	}

	// Set bundles the three telemetry hooks. Nil members are replaced by
	// their noop counterpart by WithDefaults.
	Set struct {
		Logger  Logger
		Metrics Metrics
		Tracer  Tracer
	}
)

// Noop returns a set that discards everything.
func Noop() Set {
	return Set{Logger: NewNoopLogger(), Metrics: NewNoopMetrics(), Tracer: NewNoopTracer()}
}

// Clue returns a set delegating to Clue logging and the global OTEL
// providers.
func Clue() Set {
	return Set{Logger: NewClueLogger(), Metrics: NewClueMetrics(), Tracer: NewClueTracer()}
}

// WithDefaults returns s with nil members replaced by noops.
func (s Set) WithDefaults() Set {
	if s.Logger == nil {
		s.Logger = NewNoopLogger()
	}
	if s.Metrics == nil {
		s.Metrics = NewNoopMetrics()
	}
	if s.Tracer == nil {
		s.Tracer = NewNoopTracer()
	}
	return s
}
