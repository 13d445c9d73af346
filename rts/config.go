package rts

import "go.uber.org/zap"

// DefaultMaxStackDepth bounds a thread's frame stack unless configured.
const DefaultMaxStackDepth = 10000

// Config holds configuration for scheduler creation
type Config struct {
	// Logger receives traces and fatal thread conditions.
	// nil means the package logger.
	Logger *zap.Logger

	// MaxStackDepth is the frame stack depth beyond which a thread fails
	// with a fatal stack overflow. 0 means DefaultMaxStackDepth.
	MaxStackDepth int

	// TraceThreads logs fork, yield, suspend, join and finish events.
	TraceThreads bool

	// TraceMVars logs MVar take, put and wake-up events.
	TraceMVars bool

	// TraceExceptions logs raise and catch events.
	TraceExceptions bool
}

func (c *Config) withDefaults() Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.MaxStackDepth <= 0 {
		out.MaxStackDepth = DefaultMaxStackDepth
	}
	if out.Logger == nil {
		out.Logger = Logger()
	}
	return out
}
