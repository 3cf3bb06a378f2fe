package streamq

import "go.uber.org/zap"

type config struct {
	capacity  int
	autoStart bool
	logger    *zap.Logger
	name      string
}

// Option configures a [Stream].
type Option func(*config)

func defaultConfig() config {
	return config{
		autoStart: true,
		logger:    zap.NewNop(),
		name:      "stream",
	}
}

// WithCapacity bounds the stage's queue to n items. A full queue stalls
// the stage's feeder, propagating backpressure up the chain. Zero (the
// default) means unbounded. Derived stages inherit their parent's
// capacity. Panics if n is negative.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n < 0 {
			panic("streamq: capacity must be non-negative")
		}
		c.capacity = n
	}
}

// WithManualStart disables the default auto-start. The caller must
// invoke [Stream.Start] before consuming the stream.
func WithManualStart() Option {
	return func(c *config) {
		c.autoStart = false
	}
}

// WithLogger sets the logger for feeder lifecycle events. Derived
// stages inherit it. A nil logger silences logging (the default).
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	}
}

// WithName names the stage in log output. Derived stages extend the
// name with their operator.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}
