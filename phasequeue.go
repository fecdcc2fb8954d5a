package reactor

import "container/list"

// phaseQueue is the before/after queue shape from spec §3 (before_queue,
// after_queue): an ordered sequence of handle references with O(1)
// push-back and O(1) erase-by-position. container/list's *list.Element is
// exactly the node-based cursor the spec's location field calls for, so a
// phaseHandle keeps its own *list.Element rather than the loop re-deriving
// position by search.
//
// list.List must never be copied by value (its root element self-links),
// so phaseQueue holds a pointer and swap() exchanges pointers rather than
// struct contents.
type phaseQueue struct {
	l *list.List
}

func newPhaseQueue() *phaseQueue {
	return &phaseQueue{l: list.New()}
}

// pushBack enqueues handle, returning the cursor to store as its location.
func (q *phaseQueue) pushBack(handle any) *list.Element {
	return q.l.PushBack(handle)
}

// erase removes the element at loc (spec §4.2-style O(1) erase-by-position,
// applied here to before/after rather than IO).
func (q *phaseQueue) erase(loc *list.Element) {
	q.l.Remove(loc)
}

// swap exchanges the queue's live list for a fresh empty one and returns
// what was there, implementing the "atomically swap with a local empty
// container" step spec §4.4 steps 1 and 5 both require: any handle re-added
// from within a callback lands in the now-empty live list, not the one
// being drained, so a self-re-arming handle cannot fire twice in one tick.
func (q *phaseQueue) swap() *list.List {
	drained := q.l
	q.l = list.New()
	return drained
}
