package reactor

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// RateLimitedLogger wraps a Logger and drops entries once a category
// exceeds the configured rate, so a misbehaving fd or a flapping poller
// cannot flood the destination with repeated entries (e.g. a poll wait
// failing on every tick). Built on go-catrate's per-category limiter; the
// Loop does not wrap its logger in one itself.
type RateLimitedLogger struct {
	next    Logger
	limiter *catrate.Limiter
}

// NewRateLimitedLogger limits each distinct LogEntry.Category to rates,
// passing every entry through to next when allowed and silently dropping it
// otherwise.
func NewRateLimitedLogger(next Logger, rates map[time.Duration]int) *RateLimitedLogger {
	return &RateLimitedLogger{next: next, limiter: catrate.NewLimiter(rates)}
}

// IsEnabled defers entirely to the wrapped logger; rate limiting only
// affects whether an otherwise-enabled entry is actually written.
func (l *RateLimitedLogger) IsEnabled(level LogLevel) bool {
	return l.next.IsEnabled(level)
}

// Log passes entry through if its category hasn't exceeded the configured
// rate.
func (l *RateLimitedLogger) Log(entry LogEntry) {
	if !l.next.IsEnabled(entry.Level) {
		return
	}
	if _, ok := l.limiter.Allow(entry.Category); !ok {
		return
	}
	l.next.Log(entry)
}
