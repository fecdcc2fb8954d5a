package reactor

import (
	"testing"
	"time"
)

// S5 — Interrupt breaks wait.
func TestInterruptBreaksWait(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	go func() {
		time.Sleep(20 * time.Millisecond)
		if err := loop.Interrupt(); err != nil {
			t.Errorf("Interrupt: %v", err)
		}
	}()

	start := time.Now()
	if err := loop.Tick(1000); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed > 100*time.Millisecond {
		t.Fatalf("expected Tick to return within ~100ms of interrupt, took %v", elapsed)
	}
}

func TestInterruptIsRepeatable(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	for i := 0; i < 5; i++ {
		if err := loop.Interrupt(); err != nil {
			t.Fatalf("Interrupt #%d: %v", i, err)
		}
		start := time.Now()
		if err := loop.Tick(1000); err != nil {
			t.Fatalf("Tick #%d: %v", i, err)
		}
		if time.Since(start) > 500*time.Millisecond {
			t.Fatalf("Tick #%d took too long after interrupt", i)
		}
	}
}
