package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultEqual(t *testing.T) {
	type boxed struct{ V any }

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same int", 1, 1, true},
		{"different int", 1, 2, false},
		{"different types", 1, int64(1), false},
		{"nil and nil", nil, nil, true},
		{"nil and value", nil, 0, false},
		{"equal slices", []int{1, 2}, []int{1, 2}, true},
		{"different slices", []int{1, 2}, []int{2, 1}, false},
		{"equal maps", map[string]int{"a": 1}, map[string]int{"a": 1}, true},
		{"boxed slices", boxed{[]int{1}}, boxed{[]int{1}}, true},
		{"boxed differ", boxed{[]int{1}}, boxed{[]int{2}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultEqual(tt.a, tt.b))
		})
	}
}

func TestEqualFuncOptions(t *testing.T) {
	assert.False(t, buildOptions([]Option[int]{NeverEqual[int]()}).equalFunc()(1, 1))

	abs := WithEquals(func(a, b int) bool { return a == b || a == -b })
	eq := buildOptions([]Option[int]{abs}).equalFunc()
	assert.True(t, eq(3, -3))
	assert.False(t, eq(3, 4))

	// the last equality option wins
	eq = buildOptions([]Option[int]{NeverEqual[int](), abs}).equalFunc()
	assert.True(t, eq(2, 2))
}
