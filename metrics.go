package reactor

import "sync/atomic"

// Metrics tracks per-phase dispatch counters for a Loop, enabled via
// WithMetrics. Trimmed from the teacher's latency/queue-depth/TPS machinery
// (which served a multi-producer task queue this reactor doesn't have) down
// to simple atomic counters over the five dispatch phases in spec §4.4 —
// percentile estimation has no callback-latency signal to estimate here,
// since a callback's cost is the caller's, not the loop's.
type Metrics struct {
	Ticks        atomic.Uint64
	BeforeFired  atomic.Uint64
	IOFired      atomic.Uint64
	TimerFired   atomic.Uint64
	AfterFired   atomic.Uint64
	GreedyDrains atomic.Uint64
	PollErrors   atomic.Uint64
	Interrupts   atomic.Uint64
}

// Snapshot is a point-in-time copy of Metrics, safe to read without races.
type Snapshot struct {
	Ticks        uint64
	BeforeFired  uint64
	IOFired      uint64
	TimerFired   uint64
	AfterFired   uint64
	GreedyDrains uint64
	PollErrors   uint64
	Interrupts   uint64
}

// Snapshot takes a point-in-time, race-free copy of m's counters.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Ticks:        m.Ticks.Load(),
		BeforeFired:  m.BeforeFired.Load(),
		IOFired:      m.IOFired.Load(),
		TimerFired:   m.TimerFired.Load(),
		AfterFired:   m.AfterFired.Load(),
		GreedyDrains: m.GreedyDrains.Load(),
		PollErrors:   m.PollErrors.Load(),
		Interrupts:   m.Interrupts.Load(),
	}
}
