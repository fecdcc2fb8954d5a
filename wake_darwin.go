//go:build darwin

package reactor

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// newWakePipe uses a classic self-pipe, grounded on the teacher's
// wakeup_darwin.go: kqueue has no eventfd equivalent, so a pipe with both
// ends non-blocking and close-on-exec stands in.
func newWakePipe() (readFD, writeFD int, err error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return -1, -1, err
	}
	for _, fd := range fds {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return -1, -1, err
		}
	}
	return fds[0], fds[1], nil
}

func wakeArm(writeFD int) error {
	_, err := unix.Write(writeFD, []byte{1})
	if err != nil && err != unix.EAGAIN {
		return err
	}
	return nil
}

func wakeRegister(pollFD, readFD int, cookie unsafe.Pointer) error {
	changes := kqueueDelta(readFD, Readable, 0, cookie, filterFlags(true))
	_, err := unix.Kevent(pollFD, changes, nil, nil)
	return err
}

// wakeRearm re-issues EV_ADD for the read-end: since EV_CLEAR (edge
// triggering) was set at registration, re-adding re-evaluates readiness and
// emits a fresh edge if the pipe still has the one byte wakeArm wrote,
// mirroring the epoll EPOLL_CTL_MOD trick in wake_linux.go. Safe to call
// concurrently with the loop thread's own kevent wait.
func wakeRearm(pollFD, readFD int, cookie unsafe.Pointer) error {
	changes := kqueueDelta(readFD, Readable, 0, cookie, filterFlags(true))
	_, err := unix.Kevent(pollFD, changes, nil, nil)
	return err
}

func closeWakePipe(readFD, writeFD int) error {
	err := unix.Close(readFD)
	if werr := unix.Close(writeFD); werr != nil && err == nil {
		err = werr
	}
	return err
}
