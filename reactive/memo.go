package reactive

// Memo is a lazily derived value. It recomputes on read, only after one of
// the values it read last time has changed.
type Memo[T any] struct {
	rt *Runtime
	id ID
}

// CreateMemo registers derive under s. derive receives the previous value,
// the zero value on the first run. Nothing runs until the memo is read.
func CreateMemo[T any](s Scope, derive func(prev T) T, opts ...Option[T]) Memo[T] {
	o := buildOptions(opts)
	id, err := s.rt.createNode(s.id, node{
		kind:  KindMemo,
		state: stateDirty,
		equal: o.equalFunc(),
		name:  o.name,
		derive: func(prev any) any {
			return derive(as[T](prev))
		},
	})
	if err != nil {
		s.rt.logCreateFailure(KindMemo, s.id, err)
	}
	return Memo[T]{rt: s.rt, id: id}
}

func (m Memo[T]) ID() ID { return m.id }

func (m Memo[T]) Read() (T, error) {
	v, err := m.rt.read(m.id, true)
	return as[T](v), err
}

func (m Memo[T]) Get() T {
	v, err := m.Read()
	if err != nil {
		panic(err)
	}
	return v
}

func (m Memo[T]) Peek() T {
	v, err := m.rt.read(m.id, false)
	if err != nil {
		panic(err)
	}
	return as[T](v)
}
