package reactor

import "testing"

// S6 — Phase isolation under re-enable: a Before handle that re-adds itself
// in its own callback fires exactly once per tick, across many ticks
// (would otherwise livelock).
func TestBeforePhaseIsolationUnderReEnable(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var totalFires int
	var perTick []int
	var h BeforeHandle
	if err := h.Init(loop, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	h.onPhase = func() {
		totalFires++
		perTick[len(perTick)-1]++
		_ = h.Enable()
	}
	if err := h.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	const ticks = 10
	for i := 0; i < ticks; i++ {
		perTick = append(perTick, 0)
		if err := loop.Tick(0); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}

	if totalFires != ticks {
		t.Fatalf("expected %d total fires, got %d", ticks, totalFires)
	}
	for i, c := range perTick {
		if c != 1 {
			t.Fatalf("tick %d fired %d times, want exactly 1", i, c)
		}
	}
}

func TestAfterPhaseIsolationUnderReEnable(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var fires int
	var h AfterHandle
	if err := h.Init(loop, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	h.onPhase = func() {
		fires++
		_ = h.Enable()
	}
	if err := h.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := loop.Tick(0); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}

	if fires != 5 {
		t.Fatalf("expected 5 fires over 5 ticks, got %d", fires)
	}
}

func TestBeforeRunsBeforeAfter(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var order []string
	var before BeforeHandle
	var after AfterHandle
	if err := before.Init(loop, nil); err != nil {
		t.Fatalf("before.Init: %v", err)
	}
	if err := after.Init(loop, nil); err != nil {
		t.Fatalf("after.Init: %v", err)
	}
	before.onPhase = func() { order = append(order, "before") }
	after.onPhase = func() { order = append(order, "after") }

	if err := before.Enable(); err != nil {
		t.Fatalf("before.Enable: %v", err)
	}
	if err := after.Enable(); err != nil {
		t.Fatalf("after.Enable: %v", err)
	}

	if err := loop.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(order) != 2 || order[0] != "before" || order[1] != "after" {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestHandleEnableIsNoOpWhenAlreadyActive(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var h BeforeHandle
	if err := h.Init(loop, func() {}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := h.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	loc := h.location
	if err := h.Enable(); err != nil {
		t.Fatalf("second Enable: %v", err)
	}
	if h.location != loc {
		t.Fatalf("expected Enable on an already-active handle to be a no-op")
	}
}
