package reactive

import "errors"

// Effect is a handle to a side-effecting computation.
type Effect struct {
	rt *Runtime
	id ID
}

// CreateEffect runs fn once now and again after every write that changes
// something fn read. fn receives a scope that is cleared before each rerun;
// use it for nodes and cleanups that belong to one run.
//
// The effect exists even when the first run fails; it retries on the next
// write that reaches it.
func CreateEffect(s Scope, fn func(Scope)) (Effect, error) {
	rt := s.rt
	id, err := rt.createNode(s.id, node{
		kind:   KindEffect,
		state:  stateDirty,
		equal:  neverEqual,
		effect: fn,
	})
	if err != nil {
		return Effect{rt: rt, id: id}, err
	}

	run := rt.scopes.Alloc(scope{parent: s.id, node: id})
	if n, ok := rt.nodes.Get(id); ok {
		n.run = run
	}

	err = rt.refresh(id)
	return Effect{rt: rt, id: id}, errors.Join(err, rt.settle())
}

func (e Effect) ID() ID { return e.id }

// Dispose stops the effect and runs the cleanups of its last run.
func (e Effect) Dispose() error {
	return e.rt.disposeNode(e.id)
}

func (e Effect) Disposed() bool {
	n, ok := e.rt.nodes.Get(e.id)
	return !ok || n.disposed
}
