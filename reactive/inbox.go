package reactive

import (
	"errors"
	"sync"
	"sync/atomic"
)

// inbox carries work from other goroutines to the runtime's goroutine. It
// is the only locked structure in the package.
type inbox struct {
	mu    sync.Mutex
	queue []func() error
	size  atomic.Int32
}

func (b *inbox) pending() bool {
	return b.size.Load() > 0
}

// Post queues fn to run on the runtime's goroutine at the start of the next
// flush. It is safe to call from any goroutine.
func (rt *Runtime) Post(fn func() error) {
	rt.inbox.mu.Lock()
	rt.inbox.queue = append(rt.inbox.queue, fn)
	rt.inbox.size.Add(1)
	rt.inbox.mu.Unlock()
}

// Pump applies posted work and flushes. Hosts call it from the runtime's
// goroutine, typically once per frame or tick.
func (rt *Runtime) Pump() error {
	if err := rt.checkGoroutine(); err != nil {
		return err
	}
	return rt.settle()
}

func (rt *Runtime) drainInbox() error {
	if !rt.inbox.pending() {
		return nil
	}

	rt.inbox.mu.Lock()
	work := rt.inbox.queue
	rt.inbox.queue = nil
	rt.inbox.size.Store(0)
	rt.inbox.mu.Unlock()

	var errs []error
	for _, fn := range work {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
