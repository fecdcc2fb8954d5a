//go:build darwin

package reactor

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// kqueuePoller wraps a single kqueue instance, grounded on the teacher's
// internal/alternateone/poller_darwin.go (its SafePoller) — kqueue has no
// single registration call that folds in readable+writable+closed the way
// epoll does, so add/modify/delete are expressed as EV_ADD/EV_DELETE
// kevent batches per readiness bit instead of one combined interest mask.
// Unlike epollPoller, the cookie rides in Udata (already a void*), so no
// struct-layout trick is needed — but kqueue has no queryable interest set,
// so kqueuePoller keeps a small per-fd map of the last mask requested in
// order to compute the EV_ADD/EV_DELETE delta on modify.
type kqueuePoller struct {
	kq    int
	masks map[int]Interest
}

func newPoller() (poller, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, newError(CodeUnknown, "poller.create", err)
	}
	unix.CloseOnExec(kq)
	return &kqueuePoller{kq: kq, masks: make(map[int]Interest)}, nil
}

// filterFlags for EV_CLEAR is how kqueue expresses edge-triggered delivery
// (a level would otherwise keep re-firing while data remains).
func filterFlags(edgeTriggered bool) uint16 {
	flags := uint16(unix.EV_ADD | unix.EV_ENABLE)
	if edgeTriggered {
		flags |= unix.EV_CLEAR
	}
	return flags
}

func kqueueDelta(fd int, mask, prevMask Interest, cookie unsafe.Pointer, addFlags uint16) []unix.Kevent_t {
	var out []unix.Kevent_t
	add := func(filter int16) {
		ke := unix.Kevent_t{Ident: uint64(fd), Filter: filter, Flags: addFlags}
		*(*unsafe.Pointer)(unsafe.Pointer(&ke.Udata)) = cookie
		out = append(out, ke)
	}
	del := func(filter int16) {
		out = append(out, unix.Kevent_t{Ident: uint64(fd), Filter: filter, Flags: unix.EV_DELETE})
	}
	for bit, filter := range map[Interest]int16{Readable: unix.EVFILT_READ, Writable: unix.EVFILT_WRITE} {
		switch {
		case mask.Any(bit):
			add(filter)
		case prevMask.Any(bit):
			del(filter)
		}
	}
	return out
}

func (p *kqueuePoller) register(fd int, mask Interest, cookie unsafe.Pointer, edgeTriggered bool) error {
	prev := p.masks[fd]
	changes := kqueueDelta(fd, mask, prev, cookie, filterFlags(edgeTriggered))
	if len(changes) > 0 {
		if _, err := unix.Kevent(p.kq, changes, nil, nil); err != nil {
			return err
		}
	}
	p.masks[fd] = mask
	return nil
}

func (p *kqueuePoller) add(fd int, mask Interest, cookie unsafe.Pointer, edgeTriggered bool) error {
	if err := p.register(fd, mask, cookie, edgeTriggered); err != nil {
		return newError(CodeUnknown, "poller.add", err)
	}
	return nil
}

func (p *kqueuePoller) modify(fd int, mask Interest, cookie unsafe.Pointer, edgeTriggered bool) error {
	if err := p.register(fd, mask, cookie, edgeTriggered); err != nil {
		return newError(CodeUnknown, "poller.modify", err)
	}
	return nil
}

func (p *kqueuePoller) delete(fd int) error {
	prev := p.masks[fd]
	changes := kqueueDelta(fd, 0, prev, nil, 0)
	delete(p.masks, fd)
	if len(changes) == 0 {
		return nil
	}
	// ENOENT for a filter that was never registered is expected; ignore it.
	if _, err := unix.Kevent(p.kq, changes, nil, nil); err != nil && err != unix.ENOENT {
		return newError(CodeUnknown, "poller.delete", err)
	}
	return nil
}

func (p *kqueuePoller) wait(buf []pollEvent, timeoutMs int) ([]pollEvent, error) {
	raw := make([]unix.Kevent_t, cap(buf))
	var ts *unix.Timespec
	if timeoutMs >= 0 {
		ts = &unix.Timespec{Sec: int64(timeoutMs / 1000), Nsec: int64(timeoutMs%1000) * 1e6}
	}
	n, err := unix.Kevent(p.kq, nil, raw, ts)
	if err != nil {
		if err == unix.EINTR {
			return buf[:0], nil
		}
		return buf[:0], newError(CodeUnknown, "poller.wait", err)
	}
	out := buf[:0]
	for i := 0; i < n; i++ {
		var mask Interest
		switch raw[i].Filter {
		case unix.EVFILT_READ:
			mask = Readable
		case unix.EVFILT_WRITE:
			mask = Writable
		}
		if raw[i].Flags&unix.EV_EOF != 0 {
			mask |= Closed
		}
		cookie := *(*unsafe.Pointer)(unsafe.Pointer(&raw[i].Udata))
		out = append(out, pollEvent{cookie: cookie, events: mask})
	}
	return out, nil
}

func (p *kqueuePoller) close() error {
	if err := unix.Close(p.kq); err != nil {
		return newError(CodeUnknown, "poller.close", err)
	}
	return nil
}

func (p *kqueuePoller) fd() int { return p.kq }
