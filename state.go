package reactor

import "sync/atomic"

// LoopState is the lifecycle of a Loop, trimmed from the teacher's
// multi-state FastState machine (Awake/Sleeping/Running/Terminating/
// Terminated) down to the three states a single-threaded cooperative
// reactor actually distinguishes: a loop's "sleeping in wait" moment isn't
// independently observable from outside since only Interrupt may touch the
// loop from another goroutine, and that needs no state of its own.
type LoopState uint32

const (
	// StateCreated is the zero value; New stores StateRunning before
	// returning, so a Loop from New is never observed in this state.
	StateCreated LoopState = iota
	// StateRunning is the state from New until Close.
	StateRunning
	// StateClosed is terminal; a closed Loop must not be reused.
	StateClosed
)

func (s LoopState) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateRunning:
		return "Running"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// loopState is a small atomic wrapper: Close uses compareAndSwap so only the
// first Close releases the loop's resources. Interrupt does not consult it.
type loopState struct {
	v atomic.Uint32
}

func (s *loopState) load() LoopState { return LoopState(s.v.Load()) }

func (s *loopState) store(state LoopState) { s.v.Store(uint32(state)) }

func (s *loopState) compareAndSwap(from, to LoopState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
