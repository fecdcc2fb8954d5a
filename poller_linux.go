//go:build linux

package reactor

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// epollPoller wraps a single epoll instance, grounded on the teacher's
// poller_linux.go FastPoller — simplified, since a single-threaded reactor
// needs none of the cross-goroutine synchronization the teacher's
// multi-producer design required.
//
// The cookie is stored directly in the kernel's epoll_data union rather
// than in a side table (as both the teacher and widaT-netpoll's
// poll_default_linux.go do via unsafe.Pointer(&evt.data)): unix.EpollEvent
// splits that 8-byte union into contiguous Fd/Pad int32 fields, so
// &ev.Fd reinterpreted as *unsafe.Pointer addresses the same bytes.
type epollPoller struct {
	epfd int
}

func newPoller() (poller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, newError(CodeUnknown, "poller.create", err)
	}
	return &epollPoller{epfd: fd}, nil
}

func interestToEpoll(mask Interest, edgeTriggered bool) uint32 {
	var ev uint32
	if mask.Any(Readable) {
		ev |= unix.EPOLLIN
	}
	if mask.Any(Writable) {
		ev |= unix.EPOLLOUT
	}
	if mask.Any(Closed) {
		ev |= unix.EPOLLRDHUP
	}
	if edgeTriggered {
		ev |= unix.EPOLLET
	}
	return ev
}

func epollToInterest(ev uint32) Interest {
	var mask Interest
	if ev&unix.EPOLLIN != 0 {
		mask |= Readable
	}
	if ev&unix.EPOLLOUT != 0 {
		mask |= Writable
	}
	if ev&(unix.EPOLLRDHUP|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
		mask |= Closed
	}
	return mask
}

func cookieEvent(mask Interest, cookie unsafe.Pointer, edgeTriggered bool) unix.EpollEvent {
	ev := unix.EpollEvent{Events: interestToEpoll(mask, edgeTriggered)}
	*(*unsafe.Pointer)(unsafe.Pointer(&ev.Fd)) = cookie
	return ev
}

func (p *epollPoller) add(fd int, mask Interest, cookie unsafe.Pointer, edgeTriggered bool) error {
	ev := cookieEvent(mask, cookie, edgeTriggered)
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return newError(CodeUnknown, "poller.add", err)
	}
	return nil
}

func (p *epollPoller) modify(fd int, mask Interest, cookie unsafe.Pointer, edgeTriggered bool) error {
	ev := cookieEvent(mask, cookie, edgeTriggered)
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return newError(CodeUnknown, "poller.modify", err)
	}
	return nil
}

func (p *epollPoller) delete(fd int) error {
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return newError(CodeUnknown, "poller.delete", err)
	}
	return nil
}

func (p *epollPoller) wait(buf []pollEvent, timeoutMs int) ([]pollEvent, error) {
	raw := make([]unix.EpollEvent, cap(buf))
	n, err := unix.EpollWait(p.epfd, raw, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return buf[:0], nil
		}
		return buf[:0], newError(CodeUnknown, "poller.wait", err)
	}
	out := buf[:0]
	for i := 0; i < n; i++ {
		cookie := *(*unsafe.Pointer)(unsafe.Pointer(&raw[i].Fd))
		out = append(out, pollEvent{cookie: cookie, events: epollToInterest(raw[i].Events)})
	}
	return out, nil
}

func (p *epollPoller) close() error {
	if err := unix.Close(p.epfd); err != nil {
		return newError(CodeUnknown, "poller.close", err)
	}
	return nil
}

func (p *epollPoller) fd() int { return p.epfd }
