package metrics

import (
	"testing"

	"github.com/delaneyj/finegrain/reactive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentCountsFlushesAndComputations(t *testing.T) {
	reg := prometheus.NewRegistry()
	inst := New(WithRegistry(reg), WithNamespace("test"))
	rt := reactive.NewRuntime(reactive.WithInstrument(inst))
	root := rt.Root()

	count, setCount := reactive.CreateSignal(root, 1)
	doubled := reactive.CreateMemo(root, func(int) int { return count.Get() * 2 })
	_, err := reactive.CreateEffect(root, func(reactive.Scope) {
		if doubled.Get() == 6 {
			panic("three")
		}
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, testutil.ToFloat64(inst.flushes))
	assert.Equal(t, 1.0, testutil.ToFloat64(inst.computations.WithLabelValues("memo", "changed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(inst.computations.WithLabelValues("effect", "ran")))

	require.NoError(t, setCount.Write(2))
	assert.Equal(t, 1.0, testutil.ToFloat64(inst.flushes))
	assert.Equal(t, 1.0, testutil.ToFloat64(inst.effectRuns))
	assert.Equal(t, 2.0, testutil.ToFloat64(inst.computations.WithLabelValues("memo", "changed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(inst.computations.WithLabelValues("effect", "ran")))

	err = setCount.Write(3)
	require.Error(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(inst.flushes))
	assert.Equal(t, 1.0, testutil.ToFloat64(inst.computations.WithLabelValues("effect", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(inst.flushErrors.WithLabelValues("computation")))

	assert.Equal(t, 1, testutil.CollectAndCount(inst.flushDuration))
}

func TestInstrumentCountsDisposals(t *testing.T) {
	reg := prometheus.NewRegistry()
	inst := New(WithRegistry(reg))
	rt := reactive.NewRuntime(reactive.WithInstrument(inst))

	child := rt.Root().Child()
	reactive.CreateSignal(child, "a")
	reactive.CreateSignal(child, "b")
	require.NoError(t, child.Dispose())

	assert.Equal(t, 2.0, testutil.ToFloat64(inst.disposedNodes))
	assert.Equal(t, 1.0, testutil.ToFloat64(inst.disposedScopes))
	assert.Equal(t, 0.0, testutil.ToFloat64(inst.deferred))
}

func TestInstrumentCountsAbandonedCascades(t *testing.T) {
	reg := prometheus.NewRegistry()
	inst := New(WithRegistry(reg))
	rt := reactive.NewRuntime(
		reactive.WithInstrument(inst),
		reactive.WithMaxUpdateDepth(5),
	)

	n, setN := reactive.CreateSignal(rt.Root(), 0)
	_, err := reactive.CreateEffect(rt.Root(), func(reactive.Scope) {
		setN.Set(n.Get() + 1)
	})
	require.ErrorIs(t, err, reactive.ErrMaxUpdateDepthExceeded)

	assert.Equal(t, 1.0, testutil.ToFloat64(inst.abandoned))
	assert.Equal(t, 1.0, testutil.ToFloat64(inst.flushErrors.WithLabelValues("max_update_depth")))
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "cyclic_dependency", errorType(reactive.ErrCyclicDependency))
	assert.Equal(t, "stale_handle", errorType(reactive.ErrStaleHandle))
	assert.Equal(t, "computation", errorType(&reactive.ComputationError{Value: "boom"}))
	assert.Equal(t, "other", errorType(assert.AnError))
}
