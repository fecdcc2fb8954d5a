// Package reactor provides a single-threaded, readiness-based event loop:
// a reactor multiplexing I/O readiness, wall-clock timers, and before/after
// phase callbacks against one polling wait per tick.
//
// # Architecture
//
// A [Loop] owns exactly one OS polling facility handle (epoll on Linux,
// kqueue on Darwin), a deadline-ordered timer index, and a pair of
// before/after phase queues. Users embed or construct one of four handle
// kinds — [IOHandle], [TimerHandle], [BeforeHandle], [AfterHandle] — bind
// it to a loop with Init, and register it with Enable. Exactly one
// dispatch round is performed by [Loop.Tick]; [Loop.Run] loops Tick(-1)
// until told to stop.
//
// # Concurrency
//
// The loop is single-threaded and cooperative: every handle operation and
// callback runs on the loop's owning goroutine, and the loop must never be
// re-entered from within a callback. The sole exception is [Loop.Interrupt],
// which is safe to call from any goroutine and unblocks the current or
// next poll wait.
//
// # Platform support
//
// I/O polling uses platform-native readiness facilities:
//   - Linux: epoll
//   - Darwin: kqueue
//   - Windows: not supported (see poller_windows.go) — IOCP is a
//     completion-based model, not a readiness-based one, and this reactor
//     does not attempt to paper over that difference.
//
// # Reference consumer
//
// [AfterIdleTimer] demonstrates the contract a phase/timer handle must
// support: re-arming itself from within its own callback without firing
// twice in one tick (see the repository's design notes for the full
// rationale).
package reactor
