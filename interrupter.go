package reactor

import "unsafe"

// interrupter lets any goroutine break the loop's current or next poll wait
// (spec §4.6, §5 External wake). Grounded on widaT-netpoll's eventfd-based
// self-wakeup and the teacher's wakeup_linux.go/wakeup_darwin.go pair, but
// following the spec's specific re-arm contract rather than the teacher's
// drain-then-rewrite one: a single byte is written once at creation and
// never consumed, and every subsequent interrupt re-arms the edge-triggered
// registration via the poller's raw fd — epoll_ctl MOD (and the kqueue
// EV_ADD equivalent) re-delivers an edge for a condition that is still true,
// even though no new data arrived. This makes interrupt() a plain syscall
// with no read/write races to guard against, and it is the only interrupter
// or Loop method safe to call from a goroutine other than the loop's own.
type interrupter struct {
	pollFD          int
	readFD, writeFD int
}

func newInterrupter(p poller) (*interrupter, error) {
	r, w, err := newWakePipe()
	if err != nil {
		return nil, newError(CodeUnknown, "interrupter.create", err)
	}
	in := &interrupter{pollFD: p.fd(), readFD: r, writeFD: w}
	if err := wakeArm(in.writeFD); err != nil {
		closeWakePipe(r, w)
		return nil, newError(CodeUnknown, "interrupter.arm", err)
	}
	if err := wakeRegister(in.pollFD, in.readFD, in.cookie()); err != nil {
		closeWakePipe(r, w)
		return nil, newError(CodeUnknown, "interrupter.register", err)
	}
	return in, nil
}

// cookie is the sentinel pointer this interrupter registers itself under;
// it addresses the interrupter struct itself, never a handle, so the IO
// dispatch loop can recognize a wake record with a plain pointer compare.
func (in *interrupter) cookie() unsafe.Pointer {
	return unsafe.Pointer(in)
}

// interrupt requests that the loop's current or next wait return promptly.
// Safe to call concurrently with the loop's own goroutine and with itself.
func (in *interrupter) interrupt() error {
	return wakeRearm(in.pollFD, in.readFD, in.cookie())
}

func (in *interrupter) close() error {
	return closeWakePipe(in.readFD, in.writeFD)
}
