package reactive

import "github.com/cespare/xxhash/v2"

// Context is a value provided on a scope and looked up by its descendants.
// Contexts with the same name share a slot.
type Context[T any] struct {
	name string
	key  uint64
	def  T
}

func NewContext[T any](name string, def T) *Context[T] {
	return &Context[T]{
		name: name,
		key:  xxhash.Sum64String(name),
		def:  def,
	}
}

func (c *Context[T]) Name() string { return c.name }

// Provide stores v on s for s and its descendants.
func (c *Context[T]) Provide(s Scope, v T) error {
	sc, ok := s.rt.scopes.Get(s.id)
	if !ok || sc.disposed {
		return staleScope(s.id)
	}
	if sc.values == nil {
		sc.values = map[uint64]any{}
	}
	sc.values[c.key] = v
	return nil
}

// Use returns the value provided on the nearest enclosing scope, or the
// default.
func (c *Context[T]) Use(s Scope) T {
	v, ok := c.Lookup(s)
	if !ok {
		return c.def
	}
	return v
}

func (c *Context[T]) Lookup(s Scope) (T, bool) {
	for id := s.id; !id.IsZero(); {
		sc, ok := s.rt.scopes.Get(id)
		if !ok {
			break
		}
		if v, ok := sc.values[c.key]; ok {
			if tv, ok := v.(T); ok {
				return tv, true
			}
		}
		id = sc.parent
	}
	var zero T
	return zero, false
}
