package reactive

import (
	"errors"
	"fmt"
	"runtime/debug"

	mapset "github.com/deckarep/golang-set/v2"
)

type scope struct {
	parent   ID
	children []ID
	nodes    mapset.Set[ID]
	cleanups []func()
	values   map[uint64]any // context values
	disposed bool

	// set on the run scope of an effect
	node ID
}

// Scope is a handle to a disposal unit. Everything created under a scope
// is torn down with it.
type Scope struct {
	rt *Runtime
	id ID
}

// CreateScope returns a child of parent. A disposed parent yields a scope
// that is already disposed.
func CreateScope(parent Scope) Scope {
	return parent.Child()
}

// Dispose tears down s. It is safe to call more than once.
func Dispose(s Scope) error {
	return s.Dispose()
}

func (s Scope) ID() ID { return s.id }

func (s Scope) Runtime() *Runtime { return s.rt }

// Child returns a new scope under s. When that fails the result is already
// disposed; NewChild reports why.
func (s Scope) Child() Scope {
	c, err := s.NewChild()
	if errors.Is(err, ErrForeignGoroutine) {
		s.rt.log.Warn("scope created from foreign goroutine", "scope", s.id.String(), "error", err)
	}
	return c
}

// NewChild is Child with the failure returned: ErrForeignGoroutine on a
// strict runtime used from another goroutine, ErrStaleHandle when s is
// disposed.
func (s Scope) NewChild() (Scope, error) {
	rt := s.rt
	if err := rt.checkGoroutine(); err != nil {
		return Scope{rt: rt}, err
	}
	p, ok := rt.scopes.Get(s.id)
	if !ok || p.disposed {
		return Scope{rt: rt}, staleScope(s.id)
	}

	id := rt.scopes.Alloc(scope{parent: s.id})
	p, _ = rt.scopes.Get(s.id)
	p.children = append(p.children, id)
	return Scope{rt: rt, id: id}, nil
}

func (s Scope) Dispose() error {
	return s.rt.disposeScope(s.id)
}

// Disposed reports whether s has been disposed or never existed.
func (s Scope) Disposed() bool {
	sc, ok := s.rt.scopes.Get(s.id)
	return !ok || sc.disposed
}

// OnCleanup registers fn to run when s is disposed, most recent first. On an
// effect's run scope that is before the effect's next run. If s is already
// disposed fn runs now.
func (s Scope) OnCleanup(fn func()) {
	sc, ok := s.rt.scopes.Get(s.id)
	if !ok || sc.disposed {
		s.rt.runCleanup(s.id, fn)
		return
	}
	sc.cleanups = append(sc.cleanups, fn)
}

func (rt *Runtime) disposeScope(id ID) error {
	if err := rt.checkGoroutine(); err != nil {
		return err
	}
	sc, ok := rt.scopes.Get(id)
	if !ok || sc.disposed {
		return nil
	}

	rt.flagScope(id)
	rt.pendingScopes.Add(id)
	if rt.busy() {
		rt.log.Debug("scope disposal deferred", "scope", id.String())
		rt.disposed.Deferred++
		return nil
	}
	rt.teardownPending()
	return rt.settle()
}

func (rt *Runtime) disposeNode(id ID) error {
	if err := rt.checkGoroutine(); err != nil {
		return err
	}
	n, ok := rt.nodes.Get(id)
	if !ok || n.disposed {
		return nil
	}

	n.disposed = true
	if !n.run.IsZero() {
		rt.flagScope(n.run)
	}
	rt.pendingNodes = append(rt.pendingNodes, id)
	if rt.busy() {
		rt.log.Debug("node disposal deferred", "node", id.String())
		rt.disposed.Deferred++
		return nil
	}
	rt.teardownPending()
	return rt.settle()
}

// flagScope marks a subtree disposed without running anything, so reads
// fail and queued runs are skipped until the teardown happens.
func (rt *Runtime) flagScope(id ID) {
	sc, ok := rt.scopes.Get(id)
	if !ok {
		return
	}
	sc.disposed = true

	if sc.nodes != nil {
		sc.nodes.Each(func(nid ID) bool {
			if n, ok := rt.nodes.Get(nid); ok {
				n.disposed = true
				if !n.run.IsZero() {
					rt.flagScope(n.run)
				}
			}
			return false
		})
	}
	for _, child := range sc.children {
		rt.flagScope(child)
	}
}

func (rt *Runtime) teardownPending() {
	if rt.pendingScopes.Cardinality() == 0 && len(rt.pendingNodes) == 0 {
		return
	}

	rt.tearing++
	for rt.pendingScopes.Cardinality() > 0 || len(rt.pendingNodes) > 0 {
		scopes := rt.pendingScopes.ToSlice()
		rt.pendingScopes.Clear()
		for _, id := range scopes {
			rt.teardownScope(id)
		}

		nodes := rt.pendingNodes
		rt.pendingNodes = nil
		for _, id := range nodes {
			rt.teardownNode(id)
		}
	}
	rt.tearing--
	rt.emitDispose()
}

// clearScope runs the cleanups of id, then tears down its children in
// reverse creation order, then its nodes. The scope itself stays alive.
func (rt *Runtime) clearScope(id ID) {
	sc, ok := rt.scopes.Get(id)
	if !ok {
		return
	}

	cleanups := sc.cleanups
	sc.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		rt.runCleanup(id, cleanups[i])
	}

	if sc, ok = rt.scopes.Get(id); !ok {
		return
	}
	children := sc.children
	sc.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		rt.teardownScope(children[i])
	}

	if sc, ok = rt.scopes.Get(id); !ok || sc.nodes == nil {
		return
	}
	owned := sc.nodes.ToSlice()
	sc.nodes.Clear()
	for _, nid := range owned {
		rt.teardownNode(nid)
	}
}

func (rt *Runtime) teardownScope(id ID) {
	sc, ok := rt.scopes.Get(id)
	if !ok {
		return
	}
	sc.disposed = true
	rt.clearScope(id)

	sc, ok = rt.scopes.Get(id)
	if !ok {
		return
	}
	if p, ok := rt.scopes.Get(sc.parent); ok {
		p.children = removeOrdered(p.children, id)
	}
	if rt.scopes.Free(id) {
		rt.disposed.Scopes++
	}
}

func (rt *Runtime) teardownNode(id ID) {
	n, ok := rt.nodes.Get(id)
	if !ok {
		return
	}
	n.disposed = true

	if run := n.run; !run.IsZero() {
		n.run = ID{}
		rt.teardownScope(run)
		if n, ok = rt.nodes.Get(id); !ok {
			return
		}
	}

	for _, src := range n.sources {
		if s, ok := rt.nodes.Get(src); ok {
			s.subs = removeID(s.subs, id)
		}
	}
	for _, sub := range n.subs {
		if s, ok := rt.nodes.Get(sub); ok {
			s.sources = removeID(s.sources, id)
		}
	}
	if sc, ok := rt.scopes.Get(n.owner); ok && sc.nodes != nil {
		sc.nodes.Remove(id)
	}
	if n.name != "" && n.kind == KindSignal {
		key := SnapshotKey(n.name)
		if rt.named[key] == id {
			delete(rt.named, key)
		}
	}
	if rt.nodes.Free(id) {
		rt.disposed.Nodes++
	}
}

func (rt *Runtime) runCleanup(id ID, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			rt.log.Error("cleanup panicked",
				"scope", id.String(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}

// removeOrdered keeps creation order, which teardown relies on.
func removeOrdered(ids []ID, id ID) []ID {
	for i, x := range ids {
		if x == id {
			copy(ids[i:], ids[i+1:])
			ids[len(ids)-1] = ID{}
			return ids[:len(ids)-1]
		}
	}
	return ids
}
