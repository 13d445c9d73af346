package rts

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the rts package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the rts package's logger.
// This must be called before any scheduler is created.
func SetLogger(l *zap.Logger) {
	logger = l
}

func (s *Scheduler) traceThread(t *Thread, msg string, fields ...zap.Field) {
	if s.cfg.TraceThreads {
		s.trace(t, "thread", msg, fields)
	}
}

func (s *Scheduler) traceException(t *Thread, msg string, fields ...zap.Field) {
	if s.cfg.TraceExceptions {
		s.trace(t, "exception", msg, fields)
	}
}

// TraceMVar records an MVar event for t when MVar tracing is enabled.
func (s *Scheduler) TraceMVar(t *Thread, msg string, fields ...zap.Field) {
	if s.cfg.TraceMVars {
		s.trace(t, "mvar", msg, fields)
	}
}

func (s *Scheduler) trace(t *Thread, category, msg string, fields []zap.Field) {
	var id uint64
	if t != nil {
		id = t.id
	}
	s.log.Debug(msg, append(fields, zap.String("category", category), zap.Uint64("thread", id))...)
}
