package reactor

import "testing"

func TestPhaseQueueSwapIsolatesReentry(t *testing.T) {
	q := newPhaseQueue()
	var calls []string

	var self *BeforeHandle
	self = &BeforeHandle{}
	self.onPhase = func() {
		calls = append(calls, "self")
		// re-adding here must land in q.l (the fresh list), not the drained copy
		self.location = q.pushBack(self)
		self.active = true
	}
	q.pushBack(self)

	drained := q.swap()
	for e := drained.Front(); e != nil; e = e.Next() {
		h := e.Value.(*BeforeHandle)
		h.clearLocation()
		h.onPhase()
	}

	if len(calls) != 1 {
		t.Fatalf("expected exactly one call this round, got %d", len(calls))
	}
	if q.l.Len() != 1 {
		t.Fatalf("expected the re-add to land in the fresh queue, got len %d", q.l.Len())
	}
}

func TestPhaseQueueEraseByPosition(t *testing.T) {
	q := newPhaseQueue()
	a := &BeforeHandle{}
	b := &BeforeHandle{}
	a.location = q.pushBack(a)
	b.location = q.pushBack(b)

	q.erase(a.location)

	if q.l.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", q.l.Len())
	}
	if q.l.Front().Value.(*BeforeHandle) != b {
		t.Fatalf("expected b to remain")
	}
}
