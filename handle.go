package reactor

import "container/list"

// IOHandle binds a file descriptor's readiness to callbacks (spec §3 "I/O
// handle", §4.2). Embed it (or hold one) and call Init, then Enable/Disable
// to register interest; OnIO is invoked once per matching readiness record.
type IOHandle struct {
	loop       *Loop
	active     bool
	fd         int
	eventsMask Interest
	OnIO       func(events Interest)
}

// Init binds the handle to loop. The handle must be cleared before being
// re-bound to a different loop (spec §3 invariant: loop_ref immutable after
// init).
func (h *IOHandle) Init(loop *Loop, fd int) error {
	if loop == nil || fd < 0 {
		return newError(CodeInvalid, "io.init", nil)
	}
	h.loop = loop
	h.fd = fd
	return nil
}

// IsActive reports whether the handle is currently registered with a poller.
func (h *IOHandle) IsActive() bool { return h.active }

// Enable registers interest in mask, unioning it into any mask already
// registered (spec §4.2 add_io).
func (h *IOHandle) Enable(mask Interest) error {
	if h.loop == nil {
		return newError(CodeInvalid, "io.enable", nil)
	}
	return h.loop.addIO(mask, h)
}

// Disable removes interest in mask, or the handle entirely when no bits of
// its mask remain (spec §4.2 del_io).
func (h *IOHandle) Disable(mask Interest) error {
	if h.loop == nil {
		return newError(CodeInvalid, "io.disable", nil)
	}
	return h.loop.delIO(mask, h)
}

// DisableAll removes every registered interest (spec §4.2 disable_all_io).
func (h *IOHandle) DisableAll() error {
	return h.Disable(^Interest(0))
}

// Clear tears down any active registration and unbinds the handle from its
// loop, so it may later be re-bound to a different loop.
func (h *IOHandle) Clear() error {
	if h.loop == nil {
		return nil
	}
	if h.active {
		if err := h.DisableAll(); err != nil {
			return err
		}
	}
	h.loop = nil
	return nil
}

// TimerHandle fires OnTimer once its deadline elapses (spec §3 "Timer
// handle", §4.3). The deadline lives in the loop's timer index, not on the
// handle itself.
type TimerHandle struct {
	loop     *Loop
	active   bool
	location *timerNode
	OnTimer  func()
}

// Init binds the handle to loop.
func (h *TimerHandle) Init(loop *Loop) error {
	if loop == nil {
		return newError(CodeInvalid, "timer.init", nil)
	}
	h.loop = loop
	return nil
}

// IsActive reports whether the timer is currently pending.
func (h *TimerHandle) IsActive() bool { return h.active }

// Enable arms the handle for deadlineMs, a no-op if already active (spec
// §4.3 add_timer).
func (h *TimerHandle) Enable(deadlineMs int64) error {
	if h.loop == nil {
		return newError(CodeInvalid, "timer.enable", nil)
	}
	return h.loop.addTimer(deadlineMs, h)
}

// Disable cancels the timer, a no-op if not active (spec §4.3 del_timer).
func (h *TimerHandle) Disable() error {
	if h.loop == nil {
		return newError(CodeInvalid, "timer.disable", nil)
	}
	return h.loop.delTimer(h)
}

// Clear cancels any pending registration and unbinds the handle.
func (h *TimerHandle) Clear() error {
	if h.loop == nil {
		return nil
	}
	if h.active {
		if err := h.Disable(); err != nil {
			return err
		}
	}
	h.loop = nil
	return nil
}

// phaseHandle is the shared shape of Before/After handles: a single
// on_phase hook and a list cursor (spec §3 "location": a node-based list so
// the cursor survives unrelated inserts/erases in the same container).
type phaseHandle struct {
	loop     *Loop
	active   bool
	location *list.Element
	onPhase  func()
}

func (h *phaseHandle) clearLocation() {
	h.location = nil
	h.active = false
}

// BeforeHandle runs the callback given to Init once per Enable, in the
// Before phase of the next tick, before the IO phase (spec §4.4 step 1).
type BeforeHandle struct{ phaseHandle }

// Init binds the handle to loop.
func (h *BeforeHandle) Init(loop *Loop, onPhase func()) error {
	if loop == nil {
		return newError(CodeInvalid, "before.init", nil)
	}
	h.loop = loop
	h.onPhase = onPhase
	return nil
}

// IsActive reports whether the handle is queued for the next before phase.
func (h *BeforeHandle) IsActive() bool { return h.active }

// Enable queues the handle, a no-op if already active.
func (h *BeforeHandle) Enable() error {
	if h.loop == nil {
		return newError(CodeInvalid, "before.enable", nil)
	}
	return h.loop.addBefore(h)
}

// Disable dequeues the handle, a no-op if not active.
func (h *BeforeHandle) Disable() error {
	if h.loop == nil {
		return newError(CodeInvalid, "before.disable", nil)
	}
	return h.loop.delBefore(h)
}

// Clear dequeues the handle (if active) and unbinds it.
func (h *BeforeHandle) Clear() error {
	if h.loop == nil {
		return nil
	}
	if h.active {
		if err := h.Disable(); err != nil {
			return err
		}
	}
	h.loop = nil
	return nil
}

// AfterHandle runs the callback given to Init once per Enable, in the After
// phase of the next tick, after the timer phase (spec §4.4 step 5).
type AfterHandle struct{ phaseHandle }

// Init binds the handle to loop.
func (h *AfterHandle) Init(loop *Loop, onPhase func()) error {
	if loop == nil {
		return newError(CodeInvalid, "after.init", nil)
	}
	h.loop = loop
	h.onPhase = onPhase
	return nil
}

// IsActive reports whether the handle is queued for the next after phase.
func (h *AfterHandle) IsActive() bool { return h.active }

// Enable queues the handle, a no-op if already active.
func (h *AfterHandle) Enable() error {
	if h.loop == nil {
		return newError(CodeInvalid, "after.enable", nil)
	}
	return h.loop.addAfter(h)
}

// Disable dequeues the handle, a no-op if not active.
func (h *AfterHandle) Disable() error {
	if h.loop == nil {
		return newError(CodeInvalid, "after.disable", nil)
	}
	return h.loop.delAfter(h)
}

// Clear dequeues the handle (if active) and unbinds it.
func (h *AfterHandle) Clear() error {
	if h.loop == nil {
		return nil
	}
	if h.active {
		if err := h.Disable(); err != nil {
			return err
		}
	}
	h.loop = nil
	return nil
}
