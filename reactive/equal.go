package reactive

import "reflect"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

func neverEqual(_, _ any) bool { return false }

// defaultEqual uses == for comparable dynamic types and reflect.DeepEqual
// for everything else.
func defaultEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		if eq, ok := tryCompare(a, b); ok {
			return eq
		}
	}
	return reflect.DeepEqual(a, b)
}

// tryCompare guards against comparable structs holding uncomparable
// interface values, where == panics at runtime.
func tryCompare(a, b any) (eq, ok bool) {
	defer func() {
		if recover() != nil {
			eq, ok = false, false
		}
	}()
	return a == b, true
}
