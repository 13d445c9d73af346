// Package logsink defines the severity-tagged sink runtime components
// report through, with implementations over zap and log/slog.
package logsink

import (
	"context"
	"fmt"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
	"go.uber.org/zap"
)

// Severity of a sink message.
type Severity uint8

const (
	Debug Severity = iota
	Info
	Error
	// Alert marks messages that need a person's attention right away.
	Alert
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Error:
		return "ERROR"
	case Alert:
		return "ALERT"
	}
	return fmt.Sprintf("SEVERITY(%d)", uint8(s))
}

// Sink receives runtime log messages.
type Sink interface {
	Log(sev Severity, msg string)
}

// Func adapts a function to Sink.
type Func func(sev Severity, msg string)

func (f Func) Log(sev Severity, msg string) { f(sev, msg) }

// Nop discards everything.
var Nop Sink = Func(func(Severity, string) {})

// ZapSink writes to a zap logger. Alerts are logged at error level with
// an alert field.
type ZapSink struct {
	log *zap.Logger
}

// NewZap creates a sink over log. A nil logger discards messages.
func NewZap(log *zap.Logger) *ZapSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapSink{log: log}
}

func (s *ZapSink) Log(sev Severity, msg string) {
	switch sev {
	case Debug:
		s.log.Debug(msg)
	case Info:
		s.log.Info(msg)
	case Error:
		s.log.Error(msg)
	default:
		s.log.Error(msg, zap.Bool("alert", true))
	}
}

// LevelAlert is the slog level used for Alert messages.
const LevelAlert = slog.LevelError + 4

// SlogSink writes to a set of slog handlers through a fan-out handler.
type SlogSink struct {
	log *slog.Logger
}

// NewSlog creates a sink that forwards every message to all handlers.
func NewSlog(handlers ...slog.Handler) *SlogSink {
	return &SlogSink{log: slog.New(slogmulti.Fanout(handlers...))}
}

func (s *SlogSink) Log(sev Severity, msg string) {
	s.log.Log(context.Background(), slogLevel(sev), msg)
}

func slogLevel(sev Severity) slog.Level {
	switch sev {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Error:
		return slog.LevelError
	}
	return LevelAlert
}

// Tee sends every message to all sinks in order.
func Tee(sinks ...Sink) Sink {
	return Func(func(sev Severity, msg string) {
		for _, s := range sinks {
			s.Log(sev, msg)
		}
	})
}
