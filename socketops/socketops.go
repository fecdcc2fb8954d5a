// Package socketops classifies non-blocking socket syscall outcomes into
// the five canonical outcomes the reactor package's dispatch shares with its
// collaborators (ok(n), interrupted-syscall, again, in-progress, unknown),
// per the EAGAIN/EINTR handling style in github.com/xtaci/gaio's watcher.go
// read/write loops.
package socketops

import (
	"errors"
	"syscall"

	"github.com/joeycumines/go-reactor"
)

// Accept wraps a listener's syscall-level accept, returning the accepted
// fd and its remote address on success.
func Accept(fd int) (acceptedFD int, sa syscall.Sockaddr, err error) {
	nfd, sa, err := syscall.Accept(fd)
	if err == nil {
		return nfd, sa, nil
	}
	return -1, nil, classify("socketops.accept", err)
}

// Connect issues a non-blocking connect; classify(err) distinguishes the
// expected in-progress case from a hard failure.
func Connect(fd int, sa syscall.Sockaddr) error {
	err := syscall.Connect(fd, sa)
	if err == nil {
		return nil
	}
	return classify("socketops.connect", err)
}

// Send writes buf to fd, returning the number of bytes written.
func Send(fd int, buf []byte) (n int, err error) {
	n, err = syscall.Write(fd, buf)
	if err != nil {
		return 0, classify("socketops.send", err)
	}
	return n, nil
}

// Recv reads into buf from fd, returning the number of bytes read (0 on a
// clean peer close, which syscall.Read itself reports as n=0, err=nil —
// callers distinguish that from "again" by checking n==0 && err==nil).
func Recv(fd int, buf []byte) (n int, err error) {
	n, err = syscall.Read(fd, buf)
	if err != nil {
		return 0, classify("socketops.recv", err)
	}
	return n, nil
}

// Destroy closes sock, the fd the caller passed in. sock < 0 is treated as
// already-closed and reports success, matching the original's guard.
//
// Fixes the source bug in MSocketOpts::Destroy (spec §9 open question): the
// source closed an out-of-scope identifier (sock_) rather than its sock
// parameter. There is exactly one fd in scope here, so that class of bug
// has no room to recur.
func Destroy(sock int) error {
	if sock < 0 {
		return nil
	}
	if err := syscall.Close(sock); err != nil {
		return classify("socketops.destroy", err)
	}
	return nil
}

// classify maps a raw syscall error onto the reactor's Code taxonomy (spec
// §6 "Socket-ops error classification", §7).
func classify(op string, err error) error {
	switch {
	case errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK):
		return newError(reactor.CodeAgain, op, err)
	case errors.Is(err, syscall.EINPROGRESS):
		return newError(reactor.CodeInProgress, op, err)
	case errors.Is(err, syscall.EINTR):
		return newError(reactor.CodeInterruptedSyscall, op, err)
	default:
		return newError(reactor.CodeUnknown, op, err)
	}
}

func newError(code reactor.Code, op string, cause error) error {
	return &reactor.Error{Code: code, Op: op, Err: cause}
}

// FD extracts the raw file descriptor from a *net.TCPConn/*net.UnixConn so
// callers can hand it to Accept/Connect/Send/Recv/Destroy and to
// Loop.AddIO directly. The returned fd is owned by conn's SyscallConn until
// conn is closed; callers must not close it out from under net.Conn.
func FD(conn syscall.Conn) (int, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return -1, classify("socketops.fd", err)
	}
	var fd int
	if err := raw.Control(func(sysfd uintptr) {
		fd = int(sysfd)
	}); err != nil {
		return -1, classify("socketops.fd", err)
	}
	return fd, nil
}
