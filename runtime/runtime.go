package runtime

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/lazy-runtime/buffer"
	"github.com/wippyai/lazy-runtime/config"
	"github.com/wippyai/lazy-runtime/errors"
	"github.com/wippyai/lazy-runtime/interop"
	"github.com/wippyai/lazy-runtime/loader"
	"github.com/wippyai/lazy-runtime/logsink"
	"github.com/wippyai/lazy-runtime/rts"
	"github.com/wippyai/lazy-runtime/stable"
)

// PrimModule is the built-in module every program depends on implicitly.
// It is registered in the "ghc-prim" package and holds the RealWorld
// token.
const PrimModule = "GHC.Prim"

// Config holds configuration for runtime creation
type Config struct {
	// Logger is used by every component. nil means no logging.
	Logger *zap.Logger

	// Sink receives loader progress and failures. nil means a zap sink
	// over Logger.
	Sink logsink.Sink

	Scheduler *rts.Config
	Loader    *loader.Config
	Arena     *buffer.ArenaConfig
}

type Runtime struct {
	log    *zap.Logger
	sched  *rts.Scheduler
	loader *loader.Loader
	stable *stable.Table
	arena  *buffer.Arena
	hosts  *HostRegistry
}

func New(ctx context.Context, cfg *Config) (*Runtime, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Sink == nil {
		c.Sink = logsink.NewZap(c.Logger.Named("loader"))
	}

	schedCfg := rts.Config{}
	if c.Scheduler != nil {
		schedCfg = *c.Scheduler
	}
	if schedCfg.Logger == nil {
		schedCfg.Logger = c.Logger.Named("rts")
	}

	loaderCfg := loader.Config{}
	if c.Loader != nil {
		loaderCfg = *c.Loader
	}
	if loaderCfg.Logger == nil {
		loaderCfg.Logger = c.Logger.Named("loader")
	}
	if loaderCfg.Sink == nil {
		loaderCfg.Sink = c.Sink
	}

	arenaCfg := buffer.ArenaConfig{}
	if c.Arena != nil {
		arenaCfg = *c.Arena
	}
	if arenaCfg.Logger == nil {
		arenaCfg.Logger = c.Logger.Named("arena")
	}

	arena, err := buffer.NewArenaWithConfig(ctx, &arenaCfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBuffer, errors.KindInit, err, "create arena")
	}

	r := &Runtime{
		log:    c.Logger,
		sched:  rts.NewSchedulerWithConfig(&schedCfg),
		loader: loader.NewWithConfig(&loaderCfg),
		stable: stable.NewTableWithLogger(c.Logger.Named("stable")),
		arena:  arena,
		hosts:  NewHostRegistry(),
	}
	if err := r.loader.Register(loader.Unit{Name: PrimModule, Package: "ghc-prim"}); err != nil {
		_ = arena.Close(ctx)
		return nil, err
	}
	return r, nil
}

// NewFromConfig creates a runtime from a decoded configuration file.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Runtime, error) {
	if log == nil {
		log = zap.NewNop()
	}
	return New(ctx, &Config{
		Logger:    log,
		Scheduler: cfg.RTS(log.Named("rts")),
		Loader:    cfg.LoaderConfig(log.Named("loader")),
		Arena:     cfg.ArenaConfig(log.Named("arena")),
	})
}

// Close abandons all queued threads and releases the stable pointer
// table and the arena.
func (r *Runtime) Close(ctx context.Context) error {
	r.sched.Close()
	return stderrors.Join(r.stable.Close(), r.arena.Close(ctx))
}

func (r *Runtime) Scheduler() *rts.Scheduler { return r.sched }

func (r *Runtime) Loader() *loader.Loader { return r.loader }

func (r *Runtime) Stable() *stable.Table { return r.stable }

func (r *Runtime) Arena() *buffer.Arena { return r.arena }

func (r *Runtime) Hosts() *HostRegistry { return r.hosts }

// Register adds a module unit to the loader. Every unit implicitly
// depends on PrimModule.
func (r *Runtime) Register(u loader.Unit) error {
	if u.Name != PrimModule {
		u.Dependencies = append([]string{PrimModule}, u.Dependencies...)
	}
	return r.loader.Register(u)
}

// RegisterHost registers all exported methods of h as host functions and
// makes h's module loadable.
func (r *Runtime) RegisterHost(h Host) error {
	if err := r.hosts.RegisterHost(h); err != nil {
		return err
	}
	return r.registerHostModule(h.Module())
}

func (r *Runtime) RegisterFunc(module, name string, fn any) error {
	if err := r.hosts.RegisterFunc(module, name, fn); err != nil {
		return err
	}
	return r.registerHostModule(module)
}

func (r *Runtime) registerHostModule(module string) error {
	err := r.Register(loader.Unit{Name: module})
	var e *errors.Error
	if stderrors.As(err, &e) && e.Kind == errors.KindInvalidInput {
		// already registered by an earlier host
		return nil
	}
	return err
}

// Foreign resolves a host function for a foreign import. The host
// module must have been loaded.
func (r *Runtime) Foreign(module, name string) (*rts.Func, error) {
	fn, ok := r.hosts.Lookup(module, name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseHost, "host function", module+"."+name)
	}
	if !r.loader.Loaded(module) {
		return nil, errors.NotInitialized(errors.PhaseHost, "host module "+module)
	}
	return fn, nil
}

// Load initializes a module and its dependencies.
func (r *Runtime) Load(ctx context.Context, name string) error {
	return r.loader.Load(ctx, name)
}

// Force applies c to args and evaluates the result to completion.
func (r *Runtime) Force(ctx context.Context, c rts.Closure, args ...any) (any, error) {
	return r.sched.Force(ctx, c, args...)
}

// Run evaluates a control object on a fresh thread.
func (r *Runtime) Run(ctx context.Context, ctl any) (any, error) {
	return r.sched.Run(ctx, ctl)
}

// RunIO runs an IO action and returns its result.
func (r *Runtime) RunIO(ctx context.Context, action rts.Closure, args ...any) (any, error) {
	return interop.FromIO(ctx, r.sched, action, args...)
}

// String forces a runtime string into a Go string.
func (r *Runtime) String(ctx context.Context, v any) (string, error) {
	return interop.FromString(ctx, r.sched, v)
}

// Int forces a runtime Int into a Go int32.
func (r *Runtime) Int(ctx context.Context, v any) (int32, error) {
	return interop.FromInt(ctx, r.sched, v)
}
