package reactor

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

// NewLogifaceLogger adapts a logiface.Logger[E] into a Logger, so callers
// already using logiface (zerolog, logrus, stumpy backends) can plug it
// straight into a Loop via WithLogger.
func NewLogifaceLogger[E logiface.Event](l *logiface.Logger[E]) Logger {
	return logifaceLogger[E]{l: l}
}

type logifaceLogger[E logiface.Event] struct {
	l *logiface.Logger[E]
}

func toLogifaceLevel(level LogLevel) logiface.Level {
	switch level {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

func (a logifaceLogger[E]) IsEnabled(level LogLevel) bool {
	return a.l.Level() >= toLogifaceLevel(level) && a.l.Level().Enabled()
}

func (a logifaceLogger[E]) Log(entry LogEntry) {
	b := a.l.Build(toLogifaceLevel(entry.Level))
	if b == nil {
		return
	}
	if entry.Category != "" {
		b = b.Str("category", entry.Category)
	}
	for k, v := range entry.Context {
		b = b.Str(k, fmt.Sprint(v))
	}
	if entry.Err != nil {
		b = b.Err(entry.Err)
	}
	b.Log(entry.Message)
}
