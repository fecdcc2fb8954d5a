package reactor

// AfterIdleTimer is the reference consumer spec §4.5 describes: a timer
// that re-arms itself from within its own callback, demonstrating the
// contract every self-re-arming handle depends on (spec §8 property 4,
// scenario S3) — a handle enabled inside OnTimer is eligible to fire again
// on a later tick, never the one currently dispatching it.
type AfterIdleTimer struct {
	timer  TimerHandle
	loop   *Loop
	cb     func()
	repeat int
}

// Init binds the timer to loop.
func (t *AfterIdleTimer) Init(loop *Loop) error {
	if loop == nil {
		return newError(CodeInvalid, "after_idle.init", nil)
	}
	t.loop = loop
	return t.timer.Init(loop)
}

// Enable disables any prior registration, then arms the timer to fire on
// the very next timer phase (deadline = now_ms), invoking cb repeat times,
// once per tick (repeat == 0 invokes it once; repeat < 0 means unbounded).
func (t *AfterIdleTimer) Enable(cb func(), repeat int) error {
	if err := t.Disable(); err != nil {
		return err
	}
	t.cb = cb
	t.repeat = repeat
	t.timer.OnTimer = t.fire
	return t.timer.Enable(t.loop.NowMs())
}

func (t *AfterIdleTimer) fire() {
	t.cb()
	if t.repeat == 0 {
		return
	}
	if t.repeat > 0 {
		t.repeat--
		if t.repeat == 0 {
			return
		}
	}
	// Re-arming here, from inside OnTimer, is exactly the case spec §4.4's
	// timer phase and §9's cursor design accommodate: the handle is already
	// inactive (cleared by the loop before this callback ran), so Enable
	// below inserts it fresh rather than treating it as a no-op.
	_ = t.timer.Enable(t.loop.NowMs())
}

// Disable cancels any pending fire, a no-op if not active.
func (t *AfterIdleTimer) Disable() error {
	return t.timer.Disable()
}

// IsActive reports whether a fire is still pending.
func (t *AfterIdleTimer) IsActive() bool {
	return t.timer.IsActive()
}

// Clear cancels any pending registration and unbinds the timer.
func (t *AfterIdleTimer) Clear() error {
	return t.timer.Clear()
}
