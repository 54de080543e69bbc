// Package tracing records reactive runtime activity as OpenTelemetry spans:
// one span per flush, and one per failed memo or effect run.
package tracing

import (
	"context"

	"github.com/delaneyj/finegrain/reactive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "finegrain/reactive"

// Config configures the OpenTelemetry instrument.
type Config struct {
	// TracerName is the name of the tracer (default: "finegrain/reactive").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// Parent is the context spans are started under. Default: Background.
	Parent context.Context

	// AllComputations traces successful memo and effect runs as well as
	// failed ones. They are frequent; keep this off outside debugging.
	AllComputations bool
}

type Option func(*Config)

func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

func WithParent(ctx context.Context) Option {
	return func(c *Config) {
		c.Parent = ctx
	}
}

func WithAllComputations(all bool) Option {
	return func(c *Config) {
		c.AllComputations = all
	}
}

// Instrument implements reactive.Instrument.
type Instrument struct {
	tracer trace.Tracer
	parent context.Context
	all    bool
}

var _ reactive.Instrument = (*Instrument)(nil)

func New(opts ...Option) *Instrument {
	config := Config{
		TracerName: defaultTracerName,
		Parent:     context.Background(),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Instrument{
		tracer: tracer,
		parent: config.Parent,
		all:    config.AllComputations,
	}
}

func (i *Instrument) Flush(s reactive.FlushStats) {
	_, span := i.tracer.Start(i.parent, "reactive.flush",
		trace.WithTimestamp(s.Start),
		trace.WithAttributes(
			attribute.Int("reactive.rounds", s.Rounds),
			attribute.Int("reactive.runs", s.Runs),
			attribute.Int("reactive.abandoned", s.Abandoned),
		),
	)
	end(span, s.Err)
	span.End(trace.WithTimestamp(s.Start.Add(s.Duration)))
}

func (i *Instrument) Compute(s reactive.ComputeStats) {
	if s.Err == nil && !i.all {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("reactive.node", s.Node.String()),
		attribute.Bool("reactive.changed", s.Changed),
	}
	if s.Name != "" {
		attrs = append(attrs, attribute.String("reactive.name", s.Name))
	}

	_, span := i.tracer.Start(i.parent, "reactive."+s.Kind.String(),
		trace.WithTimestamp(s.Start),
		trace.WithAttributes(attrs...),
	)
	end(span, s.Err)
	span.End(trace.WithTimestamp(s.Start.Add(s.Duration)))
}

// Dispose adds an event to the span current in the parent context, if any.
func (i *Instrument) Dispose(s reactive.DisposeStats) {
	span := trace.SpanFromContext(i.parent)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("reactive.dispose", trace.WithAttributes(
		attribute.Int("reactive.nodes", s.Nodes),
		attribute.Int("reactive.scopes", s.Scopes),
		attribute.Int("reactive.deferred", s.Deferred),
	))
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
