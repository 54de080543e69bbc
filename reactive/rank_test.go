package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdersOwnedEffects(t *testing.T) {
	rt := NewRuntime()
	a, _ := CreateSignal(rt.Root(), 0)

	var inner Effect
	outer, err := CreateEffect(rt.Root(), func(s Scope) {
		a.Get()
		inner, _ = CreateEffect(s, func(Scope) { a.Get() })
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rt.rank(outer.ID()))
	assert.Equal(t, 2, rt.rank(inner.ID()))
}
