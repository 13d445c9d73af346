// Package config loads runtime configuration from CUE files.
//
// Files are unified with each other and with an embedded schema, so every
// file may set any subset of fields and unset fields take schema
// defaults. Two files that set the same field to different values are a
// conflict. Unknown fields are rejected.
//
// A minimal file:
//
//	scheduler: max_stack_depth: 50000
//	log: level: "debug"
package config

import (
	_ "embed"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/lazy-runtime/buffer"
	"github.com/wippyai/lazy-runtime/errors"
	"github.com/wippyai/lazy-runtime/loader"
	"github.com/wippyai/lazy-runtime/rts"
)

//go:embed schema.cue
var schemaSrc string

// Config is the decoded configuration.
type Config struct {
	Scheduler Scheduler `json:"scheduler"`
	Loader    Loader    `json:"loader"`
	Arena     Arena     `json:"arena"`
	Log       Log       `json:"log"`
}

type Scheduler struct {
	Trace         Trace `json:"trace"`
	MaxStackDepth int   `json:"max_stack_depth"`
}

type Trace struct {
	Threads    bool `json:"threads"`
	MVars      bool `json:"mvars"`
	Exceptions bool `json:"exceptions"`
}

type Loader struct {
	Packages []string `json:"packages"`
}

type Arena struct {
	InitialPages uint32 `json:"initial_pages"`
	MaxPages     uint32 `json:"max_pages"`
}

type Log struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Default returns the configuration an empty file produces.
func Default() *Config {
	cfg, err := Parse("default.cue", nil)
	if err != nil {
		panic("config: embedded schema: " + err.Error())
	}
	return cfg
}

// Load reads, unifies and validates the given files in order.
func Load(paths ...string) (*Config, error) {
	ctx := cuecontext.New()
	value, err := schema(ctx)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
		}
		file := ctx.CompileBytes(content, cue.Filename(path))
		if err := file.Err(); err != nil {
			return nil, invalid(path, err)
		}
		value = value.Unify(file)
	}
	return decode(value, paths...)
}

// Parse decodes configuration from src, using name in error messages.
func Parse(name string, src []byte) (*Config, error) {
	ctx := cuecontext.New()
	value, err := schema(ctx)
	if err != nil {
		return nil, err
	}
	file := ctx.CompileBytes(src, cue.Filename(name))
	if err := file.Err(); err != nil {
		return nil, invalid(name, err)
	}
	return decode(value.Unify(file), name)
}

func schema(ctx *cue.Context) (cue.Value, error) {
	root := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return cue.Value{}, invalid("schema.cue", err)
	}
	return root.LookupPath(cue.ParsePath("#Config")), nil
}

func decode(value cue.Value, names ...string) (*Config, error) {
	name := "<config>"
	if len(names) > 0 {
		name = names[len(names)-1]
	}
	if err := value.Validate(); err != nil {
		return nil, invalid(name, err)
	}
	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return nil, invalid(name, err)
	}
	return &cfg, nil
}

func invalid(name string, err error) *errors.Error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidData).
		Path(name).
		Cause(err).
		Detail("invalid configuration").
		Build()
}

// RTS returns the scheduler configuration.
func (c *Config) RTS(log *zap.Logger) *rts.Config {
	return &rts.Config{
		Logger:          log,
		MaxStackDepth:   c.Scheduler.MaxStackDepth,
		TraceThreads:    c.Scheduler.Trace.Threads,
		TraceMVars:      c.Scheduler.Trace.MVars,
		TraceExceptions: c.Scheduler.Trace.Exceptions,
	}
}

// LoaderConfig returns the module loader configuration.
func (c *Config) LoaderConfig(log *zap.Logger) *loader.Config {
	return &loader.Config{
		Logger:   log,
		Packages: c.Loader.Packages,
	}
}

// ArenaConfig returns the buffer arena configuration.
func (c *Config) ArenaConfig(log *zap.Logger) *buffer.ArenaConfig {
	return &buffer.ArenaConfig{
		Logger:       log,
		InitialPages: c.Arena.InitialPages,
		MaxPages:     c.Arena.MaxPages,
	}
}

// NewLogger builds a zap logger from the log section.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}
	zc := zap.NewDevelopmentConfig()
	if c.Log.Format == "json" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
