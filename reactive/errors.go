package reactive

import (
	"errors"
	"fmt"
)

// ErrStaleHandle is returned when a handle refers to a node or scope that
// has been disposed, or whose slot has since been reused.
var ErrStaleHandle = errors.New("reactive: stale handle")

// ErrCyclicDependency is returned when a memo or effect reads itself,
// directly or transitively, while it is being recomputed.
var ErrCyclicDependency = errors.New("reactive: cyclic dependency")

// ErrMaxUpdateDepthExceeded is returned by a flush that needed more rounds
// than the runtime's MaxUpdateDepth. The remaining queued effects are dropped.
var ErrMaxUpdateDepthExceeded = errors.New("reactive: maximum update depth exceeded")

// ErrForeignGoroutine is returned when a strict runtime is touched from a
// goroutine other than the one that created it. Use Runtime.Post instead.
var ErrForeignGoroutine = errors.New("reactive: runtime used from a foreign goroutine")

// ComputationError wraps a panic recovered from a memo derivation or an
// effect body. The failing node is left dirty and retries on the next write
// that reaches it.
type ComputationError struct {
	Kind  Kind
	Node  ID
	Name  string
	Value any // recovered panic value
	Stack []byte
}

func (e *ComputationError) Error() string {
	label := e.Kind.String() + " " + e.Node.String()
	if e.Name != "" {
		label += " (" + e.Name + ")"
	}
	if err, ok := e.Value.(error); ok {
		return fmt.Sprintf("reactive: %s failed: %v", label, err)
	}
	return fmt.Sprintf("reactive: %s panicked: %v", label, e.Value)
}

// Unwrap returns the panic value when it was an error, so errors.Is sees
// sentinels raised by nested reads.
func (e *ComputationError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func staleNode(id ID) error {
	return fmt.Errorf("%w: node %s", ErrStaleHandle, id)
}

func staleScope(id ID) error {
	return fmt.Errorf("%w: scope %s", ErrStaleHandle, id)
}
