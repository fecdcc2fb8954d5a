package reactor

import (
	"container/list"
	"time"
	"unsafe"
)

// processStart anchors monotonicMs; time.Since retains the monotonic clock
// reading Go attaches to time.Now, so wall-clock adjustments don't disturb
// deadline comparisons (spec §9 Clock source).
var processStart = time.Now()

func monotonicMs() int64 {
	return int64(time.Since(processStart) / time.Millisecond)
}

const greedyDrainLimit = 48

// Loop is a single-threaded, readiness-based reactor: one poller instance,
// a deadline-ordered timer index, and before/after phase queues, dispatched
// by repeated calls to Tick. Grounded on the teacher's loop.go (the overall
// shape of a struct owning a poller, a timer heap and an interrupter) but
// stripped of every multi-producer/microtask/promise concern that doesn't
// belong to a single-threaded reactor.
type Loop struct {
	poller      poller
	interrupter *interrupter

	timers timerQueue
	before *phaseQueue
	after  *phaseQueue

	ioBuf []pollEvent
	now   int64
	clock func() int64

	logger  Logger
	metrics *Metrics

	state         loopState
	stopRequested bool
}

// New constructs and fully initializes a Loop: allocates the OS poller,
// arms the interrupter, and takes an initial clock reading (spec §5 Clock
// discipline: now_ms is refreshed "at init").
func New(opts ...LoopOption) (*Loop, error) {
	cfg, err := resolveLoopOptions(opts)
	if err != nil {
		return nil, err
	}

	p, err := newPoller()
	if err != nil {
		return nil, err
	}
	in, err := newInterrupter(p)
	if err != nil {
		p.close()
		return nil, err
	}

	l := &Loop{
		poller:      p,
		interrupter: in,
		before:      newPhaseQueue(),
		after:       newPhaseQueue(),
		ioBuf:       make([]pollEvent, 0, cfg.ioBufferCap),
		clock:       cfg.clock,
		logger:      cfg.logger,
	}
	if cfg.metricsEnabled {
		l.metrics = &Metrics{}
	}
	l.now = l.clock()
	l.state.store(StateRunning)
	return l, nil
}

// Metrics returns the loop's dispatch counters, or nil if WithMetrics(true)
// was not supplied to New.
func (l *Loop) Metrics() *Metrics { return l.metrics }

// NowMs returns the loop's cached clock reading (spec §5 Clock discipline).
func (l *Loop) NowMs() int64 { return l.now }

func (l *Loop) checkUsable(op string) error {
	if l.state.load() != StateRunning {
		return newError(CodeInvalid, op, nil)
	}
	return nil
}

// --- IO registration (spec §4.2) ---

// AddIO registers additional interest in mask for handle, issuing an add
// if the handle wasn't already active or a modify otherwise, and unions
// mask into the handle's existing events_mask.
//
// Fixes the source bug in AddIOEvent (spec §9): mask must contain at least
// one of {Readable, Writable, Closed}, not the inverted "any bit set is
// invalid" the source actually checked.
func (l *Loop) AddIO(mask Interest, handle *IOHandle) error {
	if handle == nil || mask&(Readable|Writable|Closed) == 0 {
		return newError(CodeInvalid, "add_io", nil)
	}
	if err := l.checkUsable("add_io"); err != nil {
		return err
	}
	effective := handle.eventsMask | mask
	cookie := unsafe.Pointer(handle)
	var err error
	if !handle.active {
		err = l.poller.add(handle.fd, effective, cookie, false)
	} else {
		err = l.poller.modify(handle.fd, effective, cookie, false)
	}
	if err != nil {
		return err
	}
	handle.active = true
	handle.eventsMask = effective
	return nil
}

func (l *Loop) addIO(mask Interest, handle *IOHandle) error { return l.AddIO(mask, handle) }

// DelIO removes interest in mask from handle, deleting the registration
// entirely once no bits remain.
func (l *Loop) DelIO(mask Interest, handle *IOHandle) error {
	if handle == nil {
		return newError(CodeInvalid, "del_io", nil)
	}
	effective := handle.eventsMask &^ mask
	if !handle.active {
		handle.eventsMask = effective
		return nil
	}
	var err error
	if effective == 0 {
		err = l.poller.delete(handle.fd)
	} else {
		err = l.poller.modify(handle.fd, effective, unsafe.Pointer(handle), false)
	}
	if err != nil {
		return err
	}
	handle.eventsMask = effective
	if effective == 0 {
		handle.active = false
	}
	return nil
}

func (l *Loop) delIO(mask Interest, handle *IOHandle) error { return l.DelIO(mask, handle) }

// --- Timers (spec §4.3) ---

// AddTimer arms handle at deadlineMs, a no-op if already active.
func (l *Loop) AddTimer(deadlineMs int64, handle *TimerHandle) error {
	if handle == nil {
		return newError(CodeInvalid, "add_timer", nil)
	}
	if handle.active {
		return nil
	}
	handle.location = l.timers.insert(deadlineMs, handle)
	handle.active = true
	return nil
}

func (l *Loop) addTimer(deadlineMs int64, handle *TimerHandle) error {
	return l.AddTimer(deadlineMs, handle)
}

// DelTimer cancels handle, a no-op if not active.
func (l *Loop) DelTimer(handle *TimerHandle) error {
	if handle == nil {
		return newError(CodeInvalid, "del_timer", nil)
	}
	if !handle.active {
		return nil
	}
	l.timers.erase(handle.location)
	handle.location = nil
	handle.active = false
	return nil
}

func (l *Loop) delTimer(handle *TimerHandle) error { return l.DelTimer(handle) }

// --- Before/After phase queues (spec §4.4 steps 1 and 5) ---

// AddBefore queues handle for the next Before phase, a no-op if already queued.
func (l *Loop) AddBefore(handle *BeforeHandle) error {
	if handle == nil {
		return newError(CodeInvalid, "add_before", nil)
	}
	if handle.active {
		return nil
	}
	handle.location = l.before.pushBack(handle)
	handle.active = true
	return nil
}

func (l *Loop) addBefore(handle *BeforeHandle) error { return l.AddBefore(handle) }

// DelBefore dequeues handle, a no-op if not queued.
func (l *Loop) DelBefore(handle *BeforeHandle) error {
	if handle == nil {
		return newError(CodeInvalid, "del_before", nil)
	}
	if !handle.active {
		return nil
	}
	l.before.erase(handle.location)
	handle.clearLocation()
	return nil
}

func (l *Loop) delBefore(handle *BeforeHandle) error { return l.DelBefore(handle) }

// AddAfter queues handle for the next After phase, a no-op if already queued.
func (l *Loop) AddAfter(handle *AfterHandle) error {
	if handle == nil {
		return newError(CodeInvalid, "add_after", nil)
	}
	if handle.active {
		return nil
	}
	handle.location = l.after.pushBack(handle)
	handle.active = true
	return nil
}

func (l *Loop) addAfter(handle *AfterHandle) error { return l.AddAfter(handle) }

// DelAfter dequeues handle, a no-op if not queued.
func (l *Loop) DelAfter(handle *AfterHandle) error {
	if handle == nil {
		return newError(CodeInvalid, "del_after", nil)
	}
	if !handle.active {
		return nil
	}
	l.after.erase(handle.location)
	handle.clearLocation()
	return nil
}

func (l *Loop) delAfter(handle *AfterHandle) error { return l.DelAfter(handle) }

// --- Dispatch (spec §4.4) ---

func (l *Loop) drainPhaseList(drained *list.List) {
	for e := drained.Front(); e != nil; e = e.Next() {
		switch h := e.Value.(type) {
		case *BeforeHandle:
			h.clearLocation()
			if l.metrics != nil {
				l.metrics.BeforeFired.Add(1)
			}
			h.onPhase()
		case *AfterHandle:
			h.clearLocation()
			if l.metrics != nil {
				l.metrics.AfterFired.Add(1)
			}
			h.onPhase()
		}
	}
}

// Tick performs exactly one dispatch round: Before → IO (with greedy
// drain) → clock refresh → Timer → After, in that fixed order (spec §4.4).
func (l *Loop) Tick(timeoutMs int) error {
	if err := l.checkUsable("tick"); err != nil {
		return err
	}

	// 1. Before phase: swap-and-drain so a handle re-added from within its
	// own callback lands outside this round (spec §4.4 step 1, §8 property 5).
	l.drainPhaseList(l.before.swap())

	// 2. IO phase.
	if err := l.runIOPhase(timeoutMs); err != nil {
		return err
	}

	// 3. Clock refresh.
	l.now = l.clock()

	// 4. Timer phase: re-read the earliest entry after every fire, since a
	// callback may re-arm itself or register/cancel unrelated timers.
	//
	// boundarySeq snapshots the insertion sequence before any node fires.
	// A handle re-armed from its own OnTimer (e.g. AfterIdleTimer.fire, or
	// any callback that re-enables at loop.NowMs()) inserts a node whose
	// deadline equals l.now but whose seq is assigned after the snapshot,
	// so it sorts after every node due this round regardless of deadline
	// ties and is left for the next tick (spec §8 property 4: eligible
	// "on the next tick, not the current one"). Without this boundary, an
	// unbounded-repeat timer that re-arms at now_ms never stops firing
	// within a single Tick.
	boundarySeq := l.timers.nextSeq
	for {
		node := l.timers.peek()
		if node == nil || node.deadline > l.now || node.seq >= boundarySeq {
			break
		}
		l.timers.erase(node)
		h := node.handle
		h.location = nil
		h.active = false
		if l.metrics != nil {
			l.metrics.TimerFired.Add(1)
		}
		h.OnTimer()
	}

	// 5. After phase: same swap-and-drain discipline as step 1.
	l.drainPhaseList(l.after.swap())

	if l.metrics != nil {
		l.metrics.Ticks.Add(1)
	}
	return nil
}

// pollDeadline computes the absolute deadline (ms) the IO phase should wait
// until, and whether it should wait indefinitely (spec §4.4 step 2).
func (l *Loop) pollDeadline(timeoutMs int) (deadline int64, forever bool) {
	earliest, hasTimer := int64(0), false
	if node := l.timers.peek(); node != nil {
		earliest, hasTimer = node.deadline, true
	}
	switch {
	case timeoutMs < 0 && !hasTimer:
		return 0, true
	case timeoutMs < 0 && hasTimer:
		return earliest, false
	case timeoutMs >= 0 && !hasTimer:
		return l.now + int64(timeoutMs), false
	default:
		userDeadline := l.now + int64(timeoutMs)
		if earliest < userDeadline {
			return earliest, false
		}
		return userDeadline, false
	}
}

// runIOPhase drives the IO phase's wait/dispatch loop. A single
// greedyDrainLimit budget is carved out once, at phase entry, and spent
// down across the whole phase rather than re-granted every time a wait
// saturates the buffer — matching the original's single `count = 48`
// spanning DispatchIOEvent, not a fresh counter per saturating read.
// Re-granting it per saturation (as an earlier version of this file did)
// lets sustained readiness starve the timer/after phases indefinitely,
// which is exactly what the counter exists to bound (spec §4.4 step 2).
func (l *Loop) runIOPhase(timeoutMs int) error {
	deadline, forever := l.pollDeadline(timeoutMs)
	budget := greedyDrainLimit
	nonBlocking := false

	for {
		waitMs := -1
		switch {
		case nonBlocking:
			waitMs = 0
		case !forever:
			waitMs = int(deadline - l.now)
			if waitMs < 0 {
				waitMs = 0
			}
		}

		events, err := l.poller.wait(l.ioBuf[:0], waitMs)
		if err != nil {
			if l.metrics != nil {
				l.metrics.PollErrors.Add(1)
			}
			if l.logger.IsEnabled(LevelError) {
				l.logger.Log(LogEntry{Level: LevelError, Category: "poller", Message: "wait failed", Err: err})
			}
			return err
		}

		interrupted := l.dispatchIOEvents(events)
		l.now = l.clock()

		if interrupted {
			// Interrupt wins over continuing to wait, even mid-drain
			// (spec §4.4 step 2: "interrupt wins over continuing").
			return nil
		}

		saturated := len(events) == cap(l.ioBuf) && cap(l.ioBuf) > 0
		if saturated && budget > 0 {
			budget--
			if l.metrics != nil {
				l.metrics.GreedyDrains.Add(1)
			}
			nonBlocking = true
			continue
		}
		if saturated {
			// Budget exhausted: yield to the timer/after phases even
			// though more readiness may remain (starvation bound).
			return nil
		}

		nonBlocking = false
		if !forever && l.now >= deadline {
			return nil
		}
	}
}

// dispatchIOEvents invokes OnIO for each ready handle, returning true if an
// interrupt record was observed. The interrupter needs no drain/re-arm
// here: interrupt() itself performs the re-arm (see interrupter.go), so
// observing its cookie is purely a signal to stop waiting.
func (l *Loop) dispatchIOEvents(events []pollEvent) (interrupted bool) {
	wakeCookie := l.interrupter.cookie()
	for _, ev := range events {
		if ev.cookie == wakeCookie {
			interrupted = true
			if l.metrics != nil {
				l.metrics.Interrupts.Add(1)
			}
			continue
		}
		h := (*IOHandle)(ev.cookie)
		if l.metrics != nil {
			l.metrics.IOFired.Add(1)
		}
		h.OnIO(ev.events)
	}
	return interrupted
}

// Stop requests that Run return after its current Tick completes. Intended
// to be called from within a callback running on the loop's own goroutine;
// pair with Interrupt from another goroutine to unblock a pending wait.
func (l *Loop) Stop() {
	l.stopRequested = true
}

// Run loops Tick(-1) until Stop is called, fixing the source's no-op
// DispatchEvent() (spec §9 open question): the intended "run forever" entry
// point is exactly this loop, not a placeholder.
func (l *Loop) Run() error {
	l.stopRequested = false
	for !l.stopRequested {
		if err := l.Tick(-1); err != nil {
			return err
		}
	}
	return nil
}

// Interrupt requests that the current or next Tick's wait return promptly.
// The only Loop method safe to call from a goroutine other than the loop's
// own (spec §5 External wake).
func (l *Loop) Interrupt() error {
	return l.interrupter.interrupt()
}

// Close releases the loop's poller and interrupter. The loop must not be
// used afterward.
func (l *Loop) Close() error {
	if !l.state.compareAndSwap(StateRunning, StateClosed) {
		return nil
	}
	err := l.interrupter.close()
	if perr := l.poller.close(); err == nil {
		err = perr
	}
	return err
}
