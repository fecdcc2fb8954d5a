//go:build windows

package reactor

import (
	"errors"
	"unsafe"
)

var errUnsupportedPlatform = errors.New("reactor: readiness polling is not supported on this platform")

// newPoller always fails on Windows: IOCP is a completion-based model, not a
// readiness-based one (spec Non-goals), and there is no faithful way to
// implement the poller interface's readiness semantics on top of it.
func newPoller() (poller, error) {
	return unsupportedPoller{}, newError(CodeUnknown, "poller.create", errUnsupportedPlatform)
}

type unsupportedPoller struct{}

func (unsupportedPoller) add(int, Interest, unsafe.Pointer, bool) error {
	return newError(CodeUnknown, "poller.add", errUnsupportedPlatform)
}

func (unsupportedPoller) modify(int, Interest, unsafe.Pointer, bool) error {
	return newError(CodeUnknown, "poller.modify", errUnsupportedPlatform)
}

func (unsupportedPoller) delete(int) error {
	return newError(CodeUnknown, "poller.delete", errUnsupportedPlatform)
}

func (unsupportedPoller) wait(buf []pollEvent, _ int) ([]pollEvent, error) {
	return buf[:0], newError(CodeUnknown, "poller.wait", errUnsupportedPlatform)
}

func (unsupportedPoller) close() error {
	return newError(CodeUnknown, "poller.close", errUnsupportedPlatform)
}

func (unsupportedPoller) fd() int { return -1 }
