package reactor

import "testing"

// S1 — Single timer fires once.
func TestSingleTimerFiresOnce(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var fires int
	var timer TimerHandle
	if err := timer.Init(loop); err != nil {
		t.Fatalf("Init: %v", err)
	}
	timer.OnTimer = func() { fires++ }
	if err := timer.Enable(loop.NowMs()); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	if err := loop.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if fires != 1 {
		t.Fatalf("expected 1 fire, got %d", fires)
	}

	if err := loop.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if fires != 1 {
		t.Fatalf("expected still 1 fire after second tick, got %d", fires)
	}
}

// S2 — Deadline order with ties: insertion-order tiebreak.
func TestDeadlineOrderWithTies(t *testing.T) {
	clock, setClock := fixedClock(1000)
	loop, err := New(WithClock(clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var order []string
	var a, b, c TimerHandle
	for _, h := range []*TimerHandle{&a, &b, &c} {
		if err := h.Init(loop); err != nil {
			t.Fatalf("Init: %v", err)
		}
	}
	a.OnTimer = func() { order = append(order, "a") }
	b.OnTimer = func() { order = append(order, "b") }
	c.OnTimer = func() { order = append(order, "c") }

	if err := a.Enable(1000); err != nil {
		t.Fatalf("enable a: %v", err)
	}
	if err := b.Enable(1000); err != nil {
		t.Fatalf("enable b: %v", err)
	}
	if err := c.Enable(1001); err != nil {
		t.Fatalf("enable c: %v", err)
	}

	setClock(1001)
	if err := loop.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("unexpected fire order: %v", order)
	}
}

// S3 — Repeating after-idle at rate.
func TestRepeatingAfterIdleAtRate(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var timer AfterIdleTimer
	if err := timer.Init(loop); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var fires int
	if err := timer.Enable(func() { fires++ }, 3); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	for i := 0; i < 4; i++ {
		if err := loop.Tick(0); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}

	if fires != 3 {
		t.Fatalf("expected exactly 3 fires over 4 ticks, got %d", fires)
	}
}

// property 4 / S6-equivalent for Timer: a handle re-armed from within its
// own OnTimer is eligible next tick, not the current one.
func TestTimerReArmFromOwnCallbackDoesNotDoubleFire(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var fires int
	var timer TimerHandle
	if err := timer.Init(loop); err != nil {
		t.Fatalf("Init: %v", err)
	}
	timer.OnTimer = func() {
		fires++
		if fires < 2 {
			_ = timer.Enable(loop.NowMs())
		}
	}
	if err := timer.Enable(loop.NowMs()); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	if err := loop.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if fires != 1 {
		t.Fatalf("expected 1 fire in first tick, got %d", fires)
	}

	if err := loop.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if fires != 2 {
		t.Fatalf("expected 2 fires after second tick, got %d", fires)
	}
}

// fixedClock returns a clock function usable with WithClock plus a setter
// to advance it deterministically from within a test.
func fixedClock(start int64) (clock func() int64, set func(int64)) {
	v := start
	return func() int64 { return v }, func(n int64) { v = n }
}
