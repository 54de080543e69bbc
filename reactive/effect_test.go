package reactive_test

import (
	"strconv"
	"testing"

	"github.com/delaneyj/finegrain/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectRunsOnEveryWrite(t *testing.T) {
	rt := reactive.NewRuntime()
	count, setCount := reactive.CreateSignal(rt.Root(), 0)

	var log []int
	_, err := reactive.CreateEffect(rt.Root(), func(reactive.Scope) {
		log = append(log, count.Get())
	})
	require.NoError(t, err)

	require.NoError(t, setCount.Write(1))
	assert.Equal(t, []int{0, 1}, log)
}

func TestBatchCoalescesWrites(t *testing.T) {
	rt := reactive.NewRuntime()
	count, setCount := reactive.CreateSignal(rt.Root(), 0)

	var log []int
	_, err := reactive.CreateEffect(rt.Root(), func(reactive.Scope) {
		log = append(log, count.Get())
	})
	require.NoError(t, err)

	err = reactive.Batch(rt, func() {
		setCount.Set(1)
		setCount.Set(2)
		assert.Equal(t, []int{0}, log, "nothing runs inside the batch")
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, log)
}

func TestNestedBatchFlushesOnce(t *testing.T) {
	rt := reactive.NewRuntime()
	a, setA := reactive.CreateSignal(rt.Root(), 0)
	b, setB := reactive.CreateSignal(rt.Root(), 0)

	var log [][2]int
	_, err := reactive.CreateEffect(rt.Root(), func(reactive.Scope) {
		log = append(log, [2]int{a.Get(), b.Get()})
	})
	require.NoError(t, err)

	require.NoError(t, rt.Batch(func() {
		setA.Set(1)
		require.NoError(t, rt.Batch(func() {
			setB.Set(1)
		}))
		assert.Len(t, log, 1, "inner batch does not flush")
		setA.Set(2)
	}))
	assert.Equal(t, [][2]int{{0, 0}, {2, 1}}, log)
}

func TestEffectRunsOnceInDiamond(t *testing.T) {
	//     C
	//   /   \
	//  A     B
	//   \   /
	//    *E
	rt := reactive.NewRuntime()
	root := rt.Root()

	c, setC := reactive.CreateSignal(root, 1)
	a := reactive.CreateMemo(root, func(int) int { return c.Get() * 2 })
	b := reactive.CreateMemo(root, func(int) int { return c.Get() + 1 })

	runs := 0
	var sums []int
	_, err := reactive.CreateEffect(root, func(reactive.Scope) {
		runs++
		sums = append(sums, a.Get()+b.Get())
	})
	require.NoError(t, err)

	require.NoError(t, setC.Write(2))
	assert.Equal(t, 2, runs)
	assert.Equal(t, []int{4, 7}, sums)
}

func TestEqualWriteDoesNotNotify(t *testing.T) {
	rt := reactive.NewRuntime()
	n, setN := reactive.CreateSignal(rt.Root(), 0)
	parity := reactive.CreateMemo(rt.Root(), func(bool) bool { return n.Get()%2 == 0 })

	runs := 0
	_, err := reactive.CreateEffect(rt.Root(), func(reactive.Scope) {
		runs++
		parity.Get()
	})
	require.NoError(t, err)

	require.NoError(t, setN.Write(0))
	assert.Equal(t, 1, runs, "same value")

	require.NoError(t, setN.Write(2))
	assert.Equal(t, 1, runs, "memo result unchanged")

	require.NoError(t, setN.Write(3))
	assert.Equal(t, 2, runs)
}

// should clear subscriptions when untracked by all subscribers
func TestEffectClearSubsWhenUntracked(t *testing.T) {
	rt := reactive.NewRuntime()
	root := rt.Root()

	a, setA := reactive.CreateSignal(root, 1)
	bRunTimes := 0
	b := reactive.CreateMemo(root, func(int) int {
		bRunTimes++
		return a.Get() * 2
	})
	effect, err := reactive.CreateEffect(root, func(reactive.Scope) {
		b.Get()
	})
	require.NoError(t, err)

	assert.Equal(t, 1, bRunTimes)
	setA.Set(2)
	assert.Equal(t, 2, bRunTimes)
	require.NoError(t, effect.Dispose())
	setA.Set(3)
	assert.Equal(t, 2, bRunTimes)
}

// should not run untracked inner effect
func TestShouldNotRunUntrackedInnerEffect(t *testing.T) {
	rt := reactive.NewRuntime()
	root := rt.Root()

	a, setA := reactive.CreateSignal(root, 3)
	b := reactive.CreateMemo(root, func(bool) bool {
		return a.Get() > 0
	})

	_, err := reactive.CreateEffect(root, func(s reactive.Scope) {
		if b.Get() {
			_, err := reactive.CreateEffect(s, func(reactive.Scope) {
				if a.Get() == 0 {
					assert.Fail(t, "inner effect ran after its owner dropped it")
				}
			})
			assert.NoError(t, err)
		}
	})
	require.NoError(t, err)

	decrement := func() {
		require.NoError(t, setA.Write(a.Peek()-1))
	}
	decrement()
	decrement()
	decrement()
}

// should run outer effect first
func TestShouldRunOuterEffectFirst(t *testing.T) {
	rt := reactive.NewRuntime()
	root := rt.Root()

	a, setA := reactive.CreateSignal(root, 1)
	b, setB := reactive.CreateSignal(root, 1)

	_, err := reactive.CreateEffect(root, func(s reactive.Scope) {
		if a.Get() != 0 {
			reactive.CreateEffect(s, func(reactive.Scope) {
				a.Get()
				b.Get()
				if a.Get() == 0 {
					assert.Fail(t, "inner effect ran after its owner dropped it")
				}
			})
		}
	})
	require.NoError(t, err)

	require.NoError(t, rt.Batch(func() {
		setA.Set(0)
		setB.Set(0)
	}))
}

// should not trigger inner effect when resolve maybe dirty
func TestShouldNotTriggerInnerEffectWhenResolveMaybeDirty(t *testing.T) {
	rt := reactive.NewRuntime()
	root := rt.Root()

	a, setA := reactive.CreateSignal(root, 0)
	b := reactive.CreateMemo(root, func(bool) bool {
		return a.Get()%2 == 0
	})

	innerTriggerTimes := 0
	_, err := reactive.CreateEffect(root, func(s reactive.Scope) {
		reactive.CreateEffect(s, func(reactive.Scope) {
			b.Get()
			innerTriggerTimes++
		})
	})
	require.NoError(t, err)

	require.NoError(t, setA.Write(2))
	assert.Equal(t, 1, innerTriggerTimes)
}

func TestInnerEffectsAreRecreatedWithTheirOwner(t *testing.T) {
	rt := reactive.NewRuntime()
	root := rt.Root()

	outer, setOuter := reactive.CreateSignal(root, 0)
	inner, setInner := reactive.CreateSignal(root, 0)

	var log []string
	_, err := reactive.CreateEffect(root, func(s reactive.Scope) {
		o := outer.Get()
		log = append(log, "outer")
		reactive.CreateEffect(s, func(reactive.Scope) {
			log = append(log, "inner "+strconv.Itoa(o))
			inner.Get()
		})
	})
	require.NoError(t, err)
	nodes := rt.Stats().Nodes

	require.NoError(t, setOuter.Write(1))
	require.NoError(t, setInner.Write(1))
	assert.Equal(t, []string{
		"outer", "inner 0",
		"outer", "inner 1",
		"inner 1",
	}, log)
	assert.Equal(t, nodes, rt.Stats().Nodes, "the first inner effect was freed")
}

func TestEffectCleanupRunsBeforeRerun(t *testing.T) {
	rt := reactive.NewRuntime()
	n, setN := reactive.CreateSignal(rt.Root(), 0)

	var log []string
	effect, err := reactive.CreateEffect(rt.Root(), func(s reactive.Scope) {
		v := n.Get()
		log = append(log, "run "+strconv.Itoa(v))
		s.OnCleanup(func() {
			log = append(log, "cleanup "+strconv.Itoa(v))
		})
	})
	require.NoError(t, err)

	require.NoError(t, setN.Write(1))
	require.NoError(t, effect.Dispose())
	assert.True(t, effect.Disposed())
	assert.Equal(t, []string{"run 0", "cleanup 0", "run 1", "cleanup 1"}, log)

	require.NoError(t, setN.Write(2))
	assert.Len(t, log, 4)
}

func TestEffectWritesCascadeInOneFlush(t *testing.T) {
	rt := reactive.NewRuntime()
	root := rt.Root()

	a, setA := reactive.CreateSignal(root, 1)
	b, setB := reactive.CreateSignal(root, 0)

	_, err := reactive.CreateEffect(root, func(reactive.Scope) {
		setB.Set(a.Get() * 10)
	})
	require.NoError(t, err)

	var seen []int
	_, err = reactive.CreateEffect(root, func(reactive.Scope) {
		seen = append(seen, b.Get())
	})
	require.NoError(t, err)

	require.NoError(t, setA.Write(2))
	assert.Equal(t, []int{10, 20}, seen)
}

// should custom effect support batch
func TestShouldCustomEffectSupportBatch(t *testing.T) {
	rt := reactive.NewRuntime()
	root := rt.Root()

	batchEffect := func(fn func()) {
		_, err := reactive.CreateEffect(root, func(reactive.Scope) {
			assert.NoError(t, rt.Batch(fn))
		})
		require.NoError(t, err)
	}

	var logs []string
	a, _ := reactive.CreateSignal(root, 0)
	b, setB := reactive.CreateSignal(root, 0)

	aa := reactive.CreateMemo(root, func(int) int {
		logs = append(logs, "aa-0")
		if a.Get() == 0 {
			setB.Set(1)
		}
		logs = append(logs, "aa-1")
		return 0
	})
	bb := reactive.CreateMemo(root, func(int) int {
		logs = append(logs, "bb")
		return b.Get()
	})

	batchEffect(func() { bb.Get() })
	batchEffect(func() { aa.Get() })

	assert.Equal(t, []string{"bb", "aa-0", "aa-1", "bb"}, logs)
}

// should not trigger after stop
func TestShouldNotTriggerAfterStop(t *testing.T) {
	rt := reactive.NewRuntime()
	count, setCount := reactive.CreateSignal(rt.Root(), 0)

	triggers := 0
	scope := rt.Root().Child()
	_, err := reactive.CreateEffect(scope, func(reactive.Scope) {
		triggers++
		count.Get()
	})
	require.NoError(t, err)

	assert.Equal(t, 1, triggers)
	setCount.Set(2)
	assert.Equal(t, 2, triggers)
	require.NoError(t, scope.Dispose())
	setCount.Set(3)
	assert.Equal(t, 2, triggers)
}

// should pause tracking
func TestUntrack(t *testing.T) {
	rt := reactive.NewRuntime()
	root := rt.Root()

	src, setSrc := reactive.CreateSignal(root, 0)
	c := reactive.CreateMemo(root, func(int) int {
		return reactive.Untrack(rt, src.Get)
	})
	assert.Equal(t, 0, c.Get())

	setSrc.Set(1)
	assert.Equal(t, 0, c.Get())
}

func TestUntrackInsideEffect(t *testing.T) {
	rt := reactive.NewRuntime()
	root := rt.Root()

	a, setA := reactive.CreateSignal(root, 0)
	b, setB := reactive.CreateSignal(root, 0)

	var log [][2]int
	_, err := reactive.CreateEffect(root, func(reactive.Scope) {
		av := a.Get()
		var bv int
		rt.Untrack(func() { bv = b.Get() })
		log = append(log, [2]int{av, bv})
	})
	require.NoError(t, err)

	require.NoError(t, setB.Write(1))
	assert.Len(t, log, 1, "b is read untracked")

	require.NoError(t, setA.Write(1))
	assert.Equal(t, [][2]int{{0, 0}, {1, 1}}, log)
}

func TestPeekDoesNotSubscribe(t *testing.T) {
	rt := reactive.NewRuntime()
	a, setA := reactive.CreateSignal(rt.Root(), 0)

	runs := 0
	_, err := reactive.CreateEffect(rt.Root(), func(reactive.Scope) {
		runs++
		a.Peek()
	})
	require.NoError(t, err)

	require.NoError(t, setA.Write(1))
	assert.Equal(t, 1, runs)
}
