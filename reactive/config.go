package reactive

import "log/slog"

// DefaultMaxUpdateDepth bounds the number of re-entrant rounds in one flush.
const DefaultMaxUpdateDepth = 1000

const defaultCapacity = 256

// Config holds runtime-wide settings. Build one through RuntimeOptions.
type Config struct {
	// MaxUpdateDepth is the number of effect rounds a single flush may run
	// before it gives up with ErrMaxUpdateDepthExceeded.
	MaxUpdateDepth int

	// Logger receives effect failures, abandoned cascades and deferred
	// disposals. Default: slog.Default().
	Logger *slog.Logger

	// Instruments observe flushes, computations and disposals.
	Instruments []Instrument

	// StrictGoroutine rejects graph operations from goroutines other than
	// the one that created the runtime.
	StrictGoroutine bool

	// Capacity preallocates node slots.
	Capacity int
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Config)

func WithMaxUpdateDepth(depth int) RuntimeOption {
	return func(c *Config) {
		c.MaxUpdateDepth = depth
	}
}

func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithInstrument adds an Instrument. It may be given more than once.
func WithInstrument(inst Instrument) RuntimeOption {
	return func(c *Config) {
		if inst != nil {
			c.Instruments = append(c.Instruments, inst)
		}
	}
}

func WithStrictGoroutine(strict bool) RuntimeOption {
	return func(c *Config) {
		c.StrictGoroutine = strict
	}
}

func WithCapacity(n int) RuntimeOption {
	return func(c *Config) {
		c.Capacity = n
	}
}

func defaultConfig() Config {
	return Config{
		MaxUpdateDepth: DefaultMaxUpdateDepth,
		Logger:         slog.Default(),
		Capacity:       defaultCapacity,
	}
}

// Option configures a single signal or memo.
type Option[T any] func(*options[T])

type options[T any] struct {
	equal func(a, b T) bool
	never bool
	name  string
}

// WithEquals replaces the default structural equality. Writes and
// recomputations that compare equal do not notify subscribers.
func WithEquals[T any](fn func(a, b T) bool) Option[T] {
	return func(o *options[T]) {
		o.equal = fn
		o.never = false
	}
}

// NeverEqual makes every write or recomputation notify subscribers.
func NeverEqual[T any]() Option[T] {
	return func(o *options[T]) {
		o.equal = nil
		o.never = true
	}
}

// WithName labels the node for logs and errors. Named signals are also
// included in Runtime.Snapshot.
func WithName[T any](name string) Option[T] {
	return func(o *options[T]) {
		o.name = name
	}
}

func buildOptions[T any](opts []Option[T]) options[T] {
	var o options[T]
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options[T]) equalFunc() func(a, b any) bool {
	switch {
	case o.never:
		return neverEqual
	case o.equal != nil:
		eq := o.equal
		return func(a, b any) bool {
			return eq(as[T](a), as[T](b))
		}
	default:
		return defaultEqual
	}
}
