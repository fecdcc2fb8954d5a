package reactor

import "testing"

func TestMetricsSnapshotCountsEachPhase(t *testing.T) {
	loop, err := New(WithMetrics(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var before BeforeHandle
	var after AfterHandle
	var timer TimerHandle
	if err := before.Init(loop, func() {}); err != nil {
		t.Fatalf("before.Init: %v", err)
	}
	if err := after.Init(loop, func() {}); err != nil {
		t.Fatalf("after.Init: %v", err)
	}
	if err := timer.Init(loop); err != nil {
		t.Fatalf("timer.Init: %v", err)
	}
	timer.OnTimer = func() {}

	if err := before.Enable(); err != nil {
		t.Fatalf("before.Enable: %v", err)
	}
	if err := after.Enable(); err != nil {
		t.Fatalf("after.Enable: %v", err)
	}
	if err := timer.Enable(loop.NowMs()); err != nil {
		t.Fatalf("timer.Enable: %v", err)
	}

	if err := loop.Tick(0); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	snap := loop.Metrics().Snapshot()
	if snap.Ticks != 1 {
		t.Fatalf("expected Ticks == 1, got %d", snap.Ticks)
	}
	if snap.BeforeFired != 1 {
		t.Fatalf("expected BeforeFired == 1, got %d", snap.BeforeFired)
	}
	if snap.AfterFired != 1 {
		t.Fatalf("expected AfterFired == 1, got %d", snap.AfterFired)
	}
	if snap.TimerFired != 1 {
		t.Fatalf("expected TimerFired == 1, got %d", snap.TimerFired)
	}
}

func TestMetricsNilWhenDisabled(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	if loop.Metrics() != nil {
		t.Fatalf("expected nil Metrics when WithMetrics was not supplied")
	}
}
