package socketops

import (
	"syscall"
	"testing"

	reactor "github.com/joeycumines/go-reactor"
)

func TestDestroyNegativeFDIsSuccess(t *testing.T) {
	if err := Destroy(-1); err != nil {
		t.Fatalf("expected nil error for sock < 0, got %v", err)
	}
}

func TestDestroyClosesFD(t *testing.T) {
	var fds [2]int
	if err := syscall.Pipe(fds[:]); err != nil {
		t.Skipf("pipe: %v", err)
	}
	defer syscall.Close(fds[1])

	if err := Destroy(fds[0]); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	// Closing an already-closed fd should surface as a classified error,
	// not a crash.
	err := Destroy(fds[0])
	if reactor.CodeOf(err) != reactor.CodeUnknown {
		t.Fatalf("expected CodeUnknown for double-close, got %v", err)
	}
}

func TestClassifyMapsErrno(t *testing.T) {
	cases := []struct {
		err  error
		code reactor.Code
	}{
		{syscall.EAGAIN, reactor.CodeAgain},
		{syscall.EWOULDBLOCK, reactor.CodeAgain},
		{syscall.EINPROGRESS, reactor.CodeInProgress},
		{syscall.EINTR, reactor.CodeInterruptedSyscall},
		{syscall.ENOTSOCK, reactor.CodeUnknown},
	}
	for _, c := range cases {
		got := reactor.CodeOf(classify("socketops.test", c.err))
		if got != c.code {
			t.Fatalf("classify(%v): expected %v, got %v", c.err, c.code, got)
		}
	}
}
