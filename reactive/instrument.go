package reactive

import "time"

// Instrument observes the scheduler. Methods are called on the runtime's
// goroutine and must not touch the graph.
type Instrument interface {
	Flush(FlushStats)
	Compute(ComputeStats)
	Dispose(DisposeStats)
}

type FlushStats struct {
	Start     time.Time
	Duration  time.Duration
	Rounds    int
	Runs      int // effects refreshed
	Abandoned int // effects dropped by ErrMaxUpdateDepthExceeded
	Err       error
}

type ComputeStats struct {
	Kind     Kind
	Node     ID
	Name     string
	Start    time.Time
	Duration time.Duration
	Changed  bool // memos only
	Err      error
}

// DisposeStats counts teardowns since the previous report.
type DisposeStats struct {
	Scopes   int
	Nodes    int
	Deferred int // disposals postponed until a flush finished
}

func (rt *Runtime) emitFlush(s FlushStats) {
	for _, inst := range rt.cfg.Instruments {
		inst.Flush(s)
	}
}

func (rt *Runtime) emitCompute(s ComputeStats) {
	for _, inst := range rt.cfg.Instruments {
		inst.Compute(s)
	}
}

func (rt *Runtime) emitDispose() {
	s := rt.disposed
	rt.disposed = DisposeStats{}
	if s == (DisposeStats{}) {
		return
	}
	for _, inst := range rt.cfg.Instruments {
		inst.Dispose(s)
	}
}
