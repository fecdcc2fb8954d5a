package reactor

import "unsafe"

// Interest is a bitset over the readiness conditions the poller can report.
// A registration's edge-triggered flag is carried out of band (only the
// interrupter's read-end uses it; see poller.add).
type Interest uint32

const (
	// Readable indicates the fd is ready for reading.
	Readable Interest = 1 << iota
	// Writable indicates the fd is ready for writing.
	Writable
	// Closed indicates the peer half-closed its end of the connection
	// (e.g. EPOLLRDHUP / kqueue EOF).
	Closed
)

// Has reports whether i contains all bits of other.
func (i Interest) Has(other Interest) bool { return i&other == other }

// Any reports whether i shares any bit with other.
func (i Interest) Any(other Interest) bool { return i&other != 0 }

// pollEvent is one readiness record returned from a poller wait: the cookie
// the registration was added with, and the readiness bits observed. Other
// kernel-specific flags (error, hangup beyond Closed) collapse into Closed
// per spec §6, except that an error condition alone still sets Closed so a
// handle has a chance to notice and tear down.
type pollEvent struct {
	cookie unsafe.Pointer
	events Interest
}

// poller is the thin wrapper over the kernel readiness facility spec §4.1
// describes: O(1) add/modify/delete, a blocking wait with timeout, and an
// edge-triggered flag usable per-registration (the interrupter is the only
// consumer of it).
type poller interface {
	// add registers fd for mask, attaching cookie as the opaque user data
	// returned alongside readiness records for this fd. edgeTriggered
	// requests edge-triggered delivery (used only by the interrupter).
	add(fd int, mask Interest, cookie unsafe.Pointer, edgeTriggered bool) error
	// modify changes the interest set and/or cookie for an already-added fd.
	modify(fd int, mask Interest, cookie unsafe.Pointer, edgeTriggered bool) error
	// delete drops fd from the poller entirely.
	delete(fd int) error
	// wait blocks up to timeoutMs (-1 = indefinite, 0 = non-blocking),
	// writing up to cap(buf) readiness records into buf starting at index 0
	// (any existing contents are discarded) and returning the resulting
	// slice. EINTR is swallowed and reported as a zero-length, nil-error
	// result.
	wait(buf []pollEvent, timeoutMs int) ([]pollEvent, error)
	// close releases the poller's OS handle.
	close() error
	// fd returns the underlying OS polling facility descriptor, for the
	// interrupter's use only: it registers and re-arms itself directly
	// against this descriptor so that interrupt() needs no synchronization
	// with the loop's own add/modify/delete traffic.
	fd() int
}
