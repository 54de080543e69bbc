package reactive

import (
	"errors"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/finegrain/internal/arena"
	"github.com/delaneyj/finegrain/internal/heightq"
	"github.com/petermattis/goid"
)

// Runtime owns every node and scope of one reactive graph. It is not safe
// for concurrent use; other goroutines hand work over with Post.
type Runtime struct {
	cfg Config
	log *slog.Logger

	nodes  *arena.Arena[node]
	scopes *arena.Arena[scope]
	root   ID

	tracker tracker
	queue   *heightq.Queue
	scratch []ID

	batchDepth int
	flushing   bool
	computing  int
	tearing    int
	epoch      uint64

	pendingScopes mapset.Set[ID]
	pendingNodes  []ID
	disposed      DisposeStats

	inbox inbox
	gid   int64
	named map[uint64]ID
}

// Stats is a point-in-time view of a runtime's storage.
type Stats struct {
	Nodes  int
	Scopes int
	// node slots ever allocated; freed slots are reused before it grows
	Slots  int
	Queued int
	Epoch  uint64
}

func NewRuntime(opts ...RuntimeOption) *Runtime {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxUpdateDepth <= 0 {
		cfg.MaxUpdateDepth = DefaultMaxUpdateDepth
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	rt := &Runtime{
		cfg:           cfg,
		log:           cfg.Logger.With("component", "reactive"),
		nodes:         arena.New[node](cfg.Capacity),
		scopes:        arena.New[scope](cfg.Capacity / 4),
		queue:         heightq.New(),
		pendingScopes: mapset.NewThreadUnsafeSet[ID](),
		gid:           goid.Get(),
		named:         map[uint64]ID{},
	}
	rt.root = rt.scopes.Alloc(scope{})
	return rt
}

// Root is the scope every other scope descends from.
func (rt *Runtime) Root() Scope {
	return Scope{rt: rt, id: rt.root}
}

// Dispose tears down the root scope and with it the whole graph.
func (rt *Runtime) Dispose() error {
	return rt.disposeScope(rt.root)
}

func (rt *Runtime) Stats() Stats {
	return Stats{
		Nodes:  rt.nodes.Len(),
		Scopes: rt.scopes.Len(),
		Slots:  rt.nodes.Cap(),
		Queued: rt.queue.Len(),
		Epoch:  rt.epoch,
	}
}

func (rt *Runtime) checkGoroutine() error {
	if !rt.cfg.StrictGoroutine {
		return nil
	}
	if id := goid.Get(); id != rt.gid {
		return fmt.Errorf("%w: goroutine %d, owner %d", ErrForeignGoroutine, id, rt.gid)
	}
	return nil
}

// busy reports whether a flush, computation or teardown is on the stack.
// Writes made while busy are picked up when it unwinds.
func (rt *Runtime) busy() bool {
	return rt.flushing || rt.computing > 0 || rt.tearing > 0
}

// createNode registers n under owner. A dead owner yields the zero ID,
// which every operation treats as stale.
func (rt *Runtime) createNode(owner ID, n node) (ID, error) {
	if err := rt.checkGoroutine(); err != nil {
		return ID{}, err
	}
	sc, ok := rt.scopes.Get(owner)
	if !ok || sc.disposed {
		return ID{}, staleScope(owner)
	}

	n.owner = owner
	id := rt.nodes.Alloc(n)
	if sc.nodes == nil {
		sc.nodes = mapset.NewThreadUnsafeSet[ID]()
	}
	sc.nodes.Add(id)

	if n.kind == KindSignal && n.name != "" {
		key := SnapshotKey(n.name)
		if prev, ok := rt.nodes.Get(rt.named[key]); ok && !prev.disposed {
			// the first live signal keeps the name
			rt.log.Warn("duplicate signal name", "name", n.name, "kept", rt.named[key].String(), "signal", id.String())
		} else {
			rt.named[key] = id
		}
	}
	return id, nil
}

// logCreateFailure reports a node that could not be created. Use from the
// wrong goroutine is a caller bug and logged louder than a dead scope.
func (rt *Runtime) logCreateFailure(kind Kind, scope ID, err error) {
	if errors.Is(err, ErrForeignGoroutine) {
		rt.log.Warn(kind.String()+" created from foreign goroutine", "scope", scope.String(), "error", err)
		return
	}
	rt.log.Debug(kind.String()+" created in dead scope", "scope", scope.String(), "error", err)
}

// read returns the current value of id, bringing memos up to date first.
func (rt *Runtime) read(id ID, tracked bool) (any, error) {
	if err := rt.checkGoroutine(); err != nil {
		return nil, err
	}
	n, ok := rt.nodes.Get(id)
	if !ok || n.disposed {
		return nil, staleNode(id)
	}

	var err error
	if n.kind == KindMemo {
		err = rt.refresh(id)
		if errors.Is(err, ErrStaleHandle) {
			return nil, err
		}
		if n, ok = rt.nodes.Get(id); !ok {
			return nil, staleNode(id)
		}
	}
	if tracked && !n.computing {
		rt.track(id)
	}
	v := n.value

	if n.kind == KindMemo && !rt.busy() {
		if serr := rt.settle(); serr != nil {
			rt.log.Error("flush after read failed", "node", id.String(), "error", serr)
		}
	}
	return v, err
}

// write stores v in the signal id and propagates unless v equals the
// current value and force is false.
func (rt *Runtime) write(id ID, v any, force bool) error {
	if err := rt.checkGoroutine(); err != nil {
		return err
	}
	n, ok := rt.nodes.Get(id)
	if !ok || n.disposed {
		return staleNode(id)
	}
	if n.kind != KindSignal {
		return fmt.Errorf("reactive: cannot write %s %s", n.kind, id)
	}
	if !force && n.hasValue && n.equal(n.value, v) {
		return nil
	}

	n.value = v
	n.hasValue = true
	rt.epoch++
	for _, sub := range n.subs {
		rt.mark(sub, stateDirty)
	}
	return rt.settle()
}

// Batch runs fn and flushes once after the outermost batch returns.
func (rt *Runtime) Batch(fn func()) error {
	if err := rt.checkGoroutine(); err != nil {
		return err
	}

	rt.batchDepth++
	func() {
		defer func() { rt.batchDepth-- }()
		fn()
	}()
	if rt.batchDepth > 0 {
		return nil
	}
	return rt.settle()
}

// Untrack runs fn without registering reads on the running computation.
func (rt *Runtime) Untrack(fn func()) {
	rt.tracker.push(ID{})
	defer rt.tracker.pop()
	fn()
}

// Batch is the package-level form of Runtime.Batch.
func Batch(rt *Runtime, fn func()) error {
	return rt.Batch(fn)
}

// Untrack runs fn without tracking and returns its result.
func Untrack[T any](rt *Runtime, fn func() T) T {
	var out T
	rt.Untrack(func() { out = fn() })
	return out
}
