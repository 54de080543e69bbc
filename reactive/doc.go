// Package reactive is a fine-grained reactive runtime: signals hold values,
// memos derive cached values from them, and effects run side effects when
// something they read changes. Dependencies are recorded while computations
// run and rebuilt on every run, so branches that are not taken stop
// subscribing.
//
// # Core Types
//
// All storage lives in a Runtime. Handles are small copyable values; a
// handle whose node was disposed fails with ErrStaleHandle.
//
//	rt := reactive.NewRuntime()
//	root := rt.Root()
//
//	count, setCount := reactive.CreateSignal(root, 0)
//	doubled := reactive.CreateMemo(root, func(int) int { return count.Get() * 2 })
//	reactive.CreateEffect(root, func(reactive.Scope) {
//	    fmt.Println("doubled is", doubled.Get())
//	})
//	setCount.Set(5) // prints "doubled is 10"
//
// # Scheduling
//
// A write marks direct dependents dirty and their dependents as needing a
// check, then flushes: queued effects run in dependency height order, memos
// recompute on read and only notify when their value changed under their
// equality policy. An effect created inside another effect's run is queued
// after its owner. Outside a batch every write flushes before returning.
//
//	reactive.Batch(rt, func() {
//	    setA.Set(1)
//	    setB.Set(2)
//	}) // one flush
//
// # Scopes
//
// Nodes belong to the scope they were created in. Disposing a scope runs its
// cleanups (most recent first), then disposes child scopes, then its nodes.
// A disposal requested while a flush is running is finished after the flush.
//
// # Goroutines
//
// A Runtime belongs to one goroutine and takes no locks. Other goroutines
// queue work with Runtime.Post or WriteSignal.Send; it is applied by the
// next flush or Runtime.Pump.
package reactive
