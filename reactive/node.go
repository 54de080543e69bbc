package reactive

import (
	"reflect"

	"github.com/delaneyj/finegrain/internal/arena"
)

// ID is the generational index of a node or scope inside its Runtime.
type ID = arena.Index

// Kind is the closed set of node variants.
type Kind uint8

const (
	KindSignal Kind = iota + 1
	KindMemo
	KindEffect
)

func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindMemo:
		return "memo"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

type state uint8

const (
	stateClean state = iota
	stateCheck       // a transitive source may have changed
	stateDirty       // a direct source changed
)

type node struct {
	kind  Kind
	state state

	// longest path from a signal; drives flush order
	height int

	computing bool // re-entry means a cycle
	cyclic    bool
	disposed  bool
	queued    bool
	failed    bool
	stalled   bool // left non-clean by an abandoned cascade
	hasValue  bool

	value any
	typ   reflect.Type // static type of a signal, for Restore
	equal func(a, b any) bool
	name  string
	err   error // last failure, returned until the next write

	derive func(prev any) any
	effect func(Scope)

	sources []ID
	subs    []ID

	owner ID
	run   ID // effect run scope

	markEpoch uint64
	failEpoch uint64
}

func (n *node) label() string {
	if n.name != "" {
		return n.kind.String() + " " + n.name
	}
	return n.kind.String()
}

func removeID(ids []ID, id ID) []ID {
	for i, x := range ids {
		if x == id {
			last := len(ids) - 1
			ids[i] = ids[last]
			ids[last] = ID{}
			return ids[:last]
		}
	}
	return ids
}

func containsID(ids []ID, id ID) bool {
	// most recent read is the likeliest repeat
	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i] == id {
			return true
		}
	}
	return false
}
