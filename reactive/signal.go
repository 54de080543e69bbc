package reactive

import "reflect"

// Readable is anything that can be read inside a computation.
type Readable[T any] interface {
	// Read returns the current value and registers the running computation
	// as a subscriber.
	Read() (T, error)
	// Get is Read that panics on error. Inside a memo or effect the panic is
	// recovered into a *ComputationError.
	Get() T
	// Peek reads without subscribing.
	Peek() T
	ID() ID
}

// ReadSignal is the read half of a signal.
type ReadSignal[T any] struct {
	rt *Runtime
	id ID
}

// WriteSignal is the write half of a signal.
type WriteSignal[T any] struct {
	rt *Runtime
	id ID
}

// CreateSignal stores initial under s. Writes that compare equal to the
// current value are dropped; see WithEquals and NeverEqual.
func CreateSignal[T any](s Scope, initial T, opts ...Option[T]) (ReadSignal[T], WriteSignal[T]) {
	o := buildOptions(opts)
	id, err := s.rt.createNode(s.id, node{
		kind:     KindSignal,
		value:    initial,
		typ:      reflect.TypeFor[T](),
		hasValue: true,
		equal:    o.equalFunc(),
		name:     o.name,
	})
	if err != nil {
		s.rt.logCreateFailure(KindSignal, s.id, err)
	}
	return ReadSignal[T]{rt: s.rt, id: id}, WriteSignal[T]{rt: s.rt, id: id}
}

func (r ReadSignal[T]) ID() ID { return r.id }

func (r ReadSignal[T]) Read() (T, error) {
	v, err := r.rt.read(r.id, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](v), nil
}

func (r ReadSignal[T]) Get() T {
	v, err := r.Read()
	if err != nil {
		panic(err)
	}
	return v
}

func (r ReadSignal[T]) Peek() T {
	v, err := r.rt.read(r.id, false)
	if err != nil {
		panic(err)
	}
	return as[T](v)
}

func (w WriteSignal[T]) ID() ID { return w.id }

// Write stores v and, outside a batch or computation, flushes before
// returning. Errors from effects run by that flush are joined into the
// returned error.
func (w WriteSignal[T]) Write(v T) error {
	return w.rt.write(w.id, v, false)
}

// Set is Write that logs instead of returning the error.
func (w WriteSignal[T]) Set(v T) {
	if err := w.Write(v); err != nil {
		w.rt.log.Error("signal write failed", "node", w.id.String(), "error", err)
	}
}

// Update mutates the value in place through fn and always notifies.
func (w WriteSignal[T]) Update(fn func(*T)) error {
	cur, err := w.rt.read(w.id, false)
	if err != nil {
		return err
	}
	v := as[T](cur)
	fn(&v)
	return w.rt.write(w.id, v, true)
}

// Send queues a write from any goroutine. It is applied by the next flush
// or Pump on the runtime's own goroutine.
func (w WriteSignal[T]) Send(v T) {
	w.rt.Post(func() error {
		return w.Write(v)
	})
}
