package reactive

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Snapshot holds the values of named signals keyed by SnapshotKey.
type Snapshot map[uint64]any

func SnapshotKey(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Snapshot captures every live signal created WithName.
func (rt *Runtime) Snapshot() Snapshot {
	snap := make(Snapshot, len(rt.named))
	for key, id := range rt.named {
		n, ok := rt.nodes.Get(id)
		if !ok || n.disposed {
			continue
		}
		snap[key] = n.value
	}
	return snap
}

// Restore writes snap back into the named signals in one batch. Keys with
// no live signal are skipped; values of the wrong type are reported.
func (rt *Runtime) Restore(snap Snapshot) error {
	var errs []error
	err := rt.Batch(func() {
		for key, v := range snap {
			id, ok := rt.named[key]
			if !ok {
				continue
			}
			n, ok := rt.nodes.Get(id)
			if !ok || n.disposed {
				continue
			}
			if !restorable(n.typ, v) {
				errs = append(errs, fmt.Errorf("reactive: restore %s: %T into %s", n.label(), v, n.typ))
				continue
			}
			if err := rt.write(id, v, false); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(append(errs, err)...)
}

// restorable reports whether v can be stored in a signal of static type typ.
// Interface types take any implementation; other types need an exact match
// since the handles unwrap values with a type assertion.
func restorable(typ reflect.Type, v any) bool {
	if typ == nil {
		return true
	}
	if v == nil {
		switch typ.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	vt := reflect.TypeOf(v)
	if typ.Kind() == reflect.Interface {
		return vt.Implements(typ)
	}
	return vt == typ
}
