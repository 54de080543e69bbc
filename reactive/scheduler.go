package reactive

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

// mark raises the state of id and walks its subscribers the first time it
// leaves clean. Effects are queued whenever they are not already.
func (rt *Runtime) mark(id ID, st state) {
	n, ok := rt.nodes.Get(id)
	if !ok || n.disposed {
		return
	}

	// failed and stalled nodes stay non-clean, so they would otherwise never
	// notify again
	propagate := n.state == stateClean || ((n.failed || n.stalled) && n.markEpoch != rt.epoch)
	if st > n.state {
		n.state = st
	}
	n.markEpoch = rt.epoch

	if n.kind == KindEffect && !n.queued {
		n.queued = true
		rt.queue.Push(id, rt.rank(id))
	}
	if !propagate {
		return
	}
	for _, sub := range n.subs {
		rt.mark(sub, stateCheck)
	}
}

// rank is the queue height of an effect: its graph height, raised above
// the effect whose run created it so the owner reruns, and possibly
// disposes it, first.
func (rt *Runtime) rank(id ID) int {
	n, ok := rt.nodes.Get(id)
	if !ok {
		return 0
	}
	h := n.height
	for sid := n.owner; !sid.IsZero(); {
		sc, ok := rt.scopes.Get(sid)
		if !ok {
			break
		}
		if !sc.node.IsZero() {
			if r := rt.rank(sc.node) + 1; r > h {
				h = r
			}
			break
		}
		sid = sc.parent
	}
	return h
}

// refresh brings the memo or effect id up to date and returns the error of
// its latest computation.
func (rt *Runtime) refresh(id ID) error {
	n, ok := rt.nodes.Get(id)
	if !ok || n.disposed {
		return staleNode(id)
	}
	if n.computing {
		rt.markCycle(id)
		return fmt.Errorf("%w: %s %s", ErrCyclicDependency, n.label(), id)
	}
	if n.kind == KindSignal || n.state == stateClean {
		return nil
	}
	if n.failed && n.failEpoch == rt.epoch {
		return n.err
	}

	n.computing = true
	rt.computing++
	defer func() {
		if n, ok := rt.nodes.Get(id); ok {
			n.computing = false
		}
		rt.computing--
	}()

	if n.state == stateCheck {
		for i := 0; ; i++ {
			n, _ = rt.nodes.Get(id)
			if n.state != stateCheck || i >= len(n.sources) {
				break
			}
			src := n.sources[i]
			s, ok := rt.nodes.Get(src)
			if !ok || s.disposed {
				n.state = stateDirty
				break
			}
			if s.kind == KindMemo {
				// a changed or failed source marks id dirty itself
				_ = rt.refresh(src)
			}
		}

		n, _ = rt.nodes.Get(id)
		if n.state == stateCheck {
			n.state = stateClean
			n.queued = false
			n.stalled = false
			if n.cyclic {
				n.cyclic = false
				return rt.fail(id, fmt.Errorf("%w: %s %s", ErrCyclicDependency, n.label(), id))
			}
			return nil
		}
		if n.state == stateClean {
			return nil
		}
	}
	return rt.recompute(id)
}

// recompute reruns the computation id under tracking.
func (rt *Runtime) recompute(id ID) error {
	rt.unlinkSources(id)

	n, _ := rt.nodes.Get(id)
	if n.kind == KindEffect && !n.run.IsZero() {
		rt.clearScope(n.run)
		n, _ = rt.nodes.Get(id)
	}

	// marks raised while running make the node dirty again
	n.state = stateClean
	n.queued = false
	n.cyclic = false
	n.stalled = false

	var (
		kind   = n.kind
		name   = n.name
		prev   = n.value
		derive = n.derive
		effect = n.effect
		run    = Scope{rt: rt, id: n.run}
		out    any
		start  time.Time
	)
	if len(rt.cfg.Instruments) > 0 {
		start = time.Now()
	}

	rt.tracker.push(id)
	err := rt.invoke(id, kind, name, func() {
		switch kind {
		case KindMemo:
			out = derive(prev)
		case KindEffect:
			effect(run)
		}
	})
	rt.tracker.pop()

	n, ok := rt.nodes.Get(id)
	if !ok {
		return staleNode(id)
	}
	if n.cyclic {
		n.cyclic = false
		err = fmt.Errorf("%w: %s %s", ErrCyclicDependency, n.label(), id)
	}

	changed := false
	if err != nil {
		err = rt.fail(id, err)
	} else {
		n.failed = false
		n.err = nil
		if kind == KindMemo {
			changed = !n.hasValue || !n.equal(prev, out)
			n.value = out
			n.hasValue = true
			if changed {
				for _, sub := range n.subs {
					rt.mark(sub, stateDirty)
				}
			}
		}
	}

	if len(rt.cfg.Instruments) > 0 {
		rt.emitCompute(ComputeStats{
			Kind:     kind,
			Node:     id,
			Name:     name,
			Start:    start,
			Duration: time.Since(start),
			Changed:  changed,
			Err:      err,
		})
	}
	return err
}

// fail leaves id dirty with err cached until the next write, and pushes the
// failure to its subscribers.
func (rt *Runtime) fail(id ID, err error) error {
	n, ok := rt.nodes.Get(id)
	if !ok {
		return err
	}
	n.state = stateDirty
	n.failed = true
	n.failEpoch = rt.epoch
	n.err = err
	for _, sub := range n.subs {
		rt.mark(sub, stateDirty)
	}
	return err
}

func (rt *Runtime) nameOf(id ID) string {
	if n, ok := rt.nodes.Get(id); ok {
		return n.name
	}
	return ""
}

func (rt *Runtime) invoke(id ID, kind Kind, name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ComputationError{
				Kind:  kind,
				Node:  id,
				Name:  name,
				Value: r,
				Stack: debug.Stack(),
			}
		}
	}()
	fn()
	return nil
}

// flush runs queued effects in rounds until none are left.
func (rt *Runtime) flush() error {
	if rt.flushing {
		return nil
	}
	rt.flushing = true
	defer func() { rt.flushing = false }()

	stats := FlushStats{Start: time.Now()}
	var errs []error
	if err := rt.drainInbox(); err != nil {
		errs = append(errs, err)
	}

	for rt.queue.Len() > 0 {
		if stats.Rounds >= rt.cfg.MaxUpdateDepth {
			stats.Abandoned = rt.abandonQueue()
			err := fmt.Errorf("%w: %d rounds, %d effects dropped",
				ErrMaxUpdateDepthExceeded, stats.Rounds, stats.Abandoned)
			rt.log.Warn("abandoning update cascade", "rounds", stats.Rounds, "dropped", stats.Abandoned)
			errs = append(errs, err)
			break
		}
		stats.Rounds++

		rt.scratch = rt.queue.Drain(rt.scratch[:0])
		for _, id := range rt.scratch {
			n, ok := rt.nodes.Get(id)
			if !ok || n.disposed {
				continue
			}
			if n.state == stateClean {
				n.queued = false
				continue
			}
			if n.failed && n.failEpoch == rt.epoch {
				n.queued = false
				continue
			}

			stats.Runs++
			if err := rt.refresh(id); err != nil {
				rt.log.Error("effect failed", "node", id.String(), "name", rt.nameOf(id), "error", err)
				errs = append(errs, err)
			}
		}
		clear(rt.scratch)
	}

	stats.Err = errors.Join(errs...)
	stats.Duration = time.Since(stats.Start)
	rt.emitFlush(stats)
	return stats.Err
}

// abandonQueue drops every queued effect. The dropped effects and the memos
// they read stay non-clean, so they are flagged stalled and the next write
// that reaches them notifies through them again.
func (rt *Runtime) abandonQueue() int {
	rt.scratch = rt.queue.Drain(rt.scratch[:0])
	dropped := 0
	for _, id := range rt.scratch {
		if n, ok := rt.nodes.Get(id); ok {
			n.queued = false
			dropped++
			rt.stall(id)
		}
	}
	clear(rt.scratch)
	return dropped
}

func (rt *Runtime) stall(id ID) {
	n, ok := rt.nodes.Get(id)
	if !ok || n.disposed || n.stalled || n.state == stateClean {
		return
	}
	n.stalled = true
	for _, src := range n.sources {
		if s, ok := rt.nodes.Get(src); ok && s.kind == KindMemo {
			rt.stall(src)
		}
	}
}

// settle finishes deferred disposals and flushes until the graph is quiet.
// It does nothing inside a batch or while something else is running.
func (rt *Runtime) settle() error {
	if rt.busy() || rt.batchDepth > 0 {
		return nil
	}

	var errs []error
	for i := 0; ; i++ {
		rt.teardownPending()
		if rt.queue.Len() == 0 && !rt.inbox.pending() {
			break
		}
		if i >= rt.cfg.MaxUpdateDepth {
			rt.abandonQueue()
			errs = append(errs, fmt.Errorf("%w: %d flushes", ErrMaxUpdateDepthExceeded, i))
			break
		}
		if err := rt.flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
