package reactive

// tracker is the stack of running computations. A zero frame suppresses
// tracking for everything above it.
type tracker struct {
	stack []ID
}

func (t *tracker) push(id ID) {
	t.stack = append(t.stack, id)
}

func (t *tracker) pop() {
	t.stack[len(t.stack)-1] = ID{}
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *tracker) current() ID {
	if len(t.stack) == 0 {
		return ID{}
	}
	return t.stack[len(t.stack)-1]
}

// track links the current observer to src for the observer's current run.
func (rt *Runtime) track(src ID) {
	obs := rt.tracker.current()
	if obs.IsZero() || obs == src {
		return
	}

	o, ok := rt.nodes.Get(obs)
	if !ok || o.disposed || containsID(o.sources, src) {
		return
	}
	s, ok := rt.nodes.Get(src)
	if !ok || s.disposed {
		return
	}

	o.sources = append(o.sources, src)
	s.subs = append(s.subs, obs)
	if s.height+1 > o.height {
		o.height = s.height + 1
	}
}

// unlinkSources drops every edge from id to its sources. The node's height
// is rebuilt by the next run's reads.
func (rt *Runtime) unlinkSources(id ID) {
	n, ok := rt.nodes.Get(id)
	if !ok {
		return
	}
	for _, src := range n.sources {
		if s, ok := rt.nodes.Get(src); ok {
			s.subs = removeID(s.subs, id)
		}
	}
	clear(n.sources)
	n.sources = n.sources[:0]
	n.height = 0
}

// markCycle flags id and the computations that reached it again.
func (rt *Runtime) markCycle(id ID) {
	if n, ok := rt.nodes.Get(id); ok {
		n.cyclic = true
	}

	stack := rt.tracker.stack
	at := -1
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == id {
			at = i
			break
		}
	}
	if at < 0 {
		// id is still checking its sources; only the reader is involved
		if n, ok := rt.nodes.Get(rt.tracker.current()); ok {
			n.cyclic = true
		}
		return
	}
	for _, f := range stack[at+1:] {
		if n, ok := rt.nodes.Get(f); ok {
			n.cyclic = true
		}
	}
}
