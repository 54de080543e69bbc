package tracing_test

import (
	"context"
	"testing"

	"github.com/delaneyj/finegrain/reactive"
	"github.com/delaneyj/finegrain/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newProvider() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)), sr
}

func attr(kvs []attribute.KeyValue, key string) attribute.Value {
	for _, kv := range kvs {
		if string(kv.Key) == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestFlushSpans(t *testing.T) {
	tp, sr := newProvider()
	rt := reactive.NewRuntime(reactive.WithInstrument(tracing.New(tracing.WithTracerProvider(tp))))
	root := rt.Root()

	a, setA := reactive.CreateSignal(root, 1)
	_, err := reactive.CreateEffect(root, func(reactive.Scope) {
		if a.Get() < 0 {
			panic("negative")
		}
	})
	require.NoError(t, err)
	assert.Empty(t, sr.Ended(), "successful runs are not traced by default")

	require.NoError(t, setA.Write(2))
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "reactive.flush", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, int64(1), attr(spans[0].Attributes(), "reactive.rounds").AsInt64())
	assert.Equal(t, int64(1), attr(spans[0].Attributes(), "reactive.runs").AsInt64())

	require.Error(t, setA.Write(-1))
	spans = sr.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "reactive.effect", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "reactive.flush", spans[2].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)
}

func TestAllComputations(t *testing.T) {
	tp, sr := newProvider()
	rt := reactive.NewRuntime(reactive.WithInstrument(tracing.New(
		tracing.WithTracerProvider(tp),
		tracing.WithAllComputations(true),
	)))

	a, _ := reactive.CreateSignal(rt.Root(), 2)
	sq := reactive.CreateMemo(rt.Root(), func(int) int { return a.Get() * a.Get() }, reactive.WithName[int]("square"))
	assert.Equal(t, 4, sq.Get())

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "reactive.memo", spans[0].Name())
	assert.Equal(t, "square", attr(spans[0].Attributes(), "reactive.name").AsString())
	assert.True(t, attr(spans[0].Attributes(), "reactive.changed").AsBool())
}

func TestDisposeEvents(t *testing.T) {
	tp, sr := newProvider()
	ctx, parent := tp.Tracer("test").Start(context.Background(), "session")
	rt := reactive.NewRuntime(reactive.WithInstrument(tracing.New(
		tracing.WithTracerProvider(tp),
		tracing.WithParent(ctx),
	)))

	child := rt.Root().Child()
	reactive.CreateSignal(child, 1)
	require.NoError(t, child.Dispose())
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "reactive.dispose", events[0].Name)
	assert.Equal(t, int64(1), attr(events[0].Attributes, "reactive.nodes").AsInt64())
}
