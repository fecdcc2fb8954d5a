package reactor

// loopOptions holds Loop construction configuration, resolved from
// LoopOption values (grounded on the teacher's options.go LoopOption/
// loopOptionImpl/resolveLoopOptions shape, retargeted at this package's
// concerns).
type loopOptions struct {
	logger         Logger
	clock          func() int64
	ioBufferCap    int
	metricsEnabled bool
}

// LoopOption configures a Loop at construction time.
type LoopOption interface {
	applyLoop(*loopOptions) error
}

type loopOptionImpl struct {
	applyLoopFunc func(*loopOptions) error
}

func (l *loopOptionImpl) applyLoop(opts *loopOptions) error {
	return l.applyLoopFunc(opts)
}

// WithLogger sets the Logger a Loop reports its own diagnostics through
// (poll wait failures). Defaults to the package-level
// global logger (see SetStructuredLogger).
func WithLogger(logger Logger) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithClock overrides the loop's source of now_ms, in milliseconds since an
// arbitrary epoch. Intended for deterministic tests; production code should
// leave this unset (defaults to the monotonic wall clock).
func WithClock(clock func() int64) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.clock = clock
		return nil
	}}
}

// WithIOBufferCapacity sets the initial capacity of the loop's reusable
// readiness-record buffer (spec §3 io_ready_buffer; default 1024).
func WithIOBufferCapacity(capacity int) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		if capacity <= 0 {
			return newError(CodeInvalid, "option.io_buffer_capacity", nil)
		}
		opts.ioBufferCap = capacity
		return nil
	}}
}

// WithMetrics enables the loop's built-in tick/dispatch counters, readable
// via Loop.Metrics.
func WithMetrics(enabled bool) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

func resolveLoopOptions(opts []LoopOption) (*loopOptions, error) {
	cfg := &loopOptions{
		ioBufferCap: 1024,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyLoop(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = getGlobalLogger()
	}
	if cfg.clock == nil {
		cfg.clock = monotonicMs
	}
	return cfg, nil
}
