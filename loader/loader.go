package loader

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/lazy-runtime/errors"
	"github.com/wippyai/lazy-runtime/logsink"
)

// DefaultPackages is the package search order used when Config.Packages
// is empty.
var DefaultPackages = []string{".", "ghc-prim", "integer-simple", "base"}

// Unit describes one module.
type Unit struct {
	// Init runs once, after every dependency has been initialized.
	// nil means nothing to do.
	Init func(ctx context.Context) error

	// Name is the dotted module name.
	Name string

	// Package the unit belongs to. Empty means ".".
	Package string

	// Dependencies are dotted names of modules to initialize first.
	Dependencies []string
}

// Config holds configuration for loader creation
type Config struct {
	// Sink receives load progress and failures. nil selects a zap sink
	// over Logger.
	Sink logsink.Sink

	// Logger receives structured debug output. nil selects the package
	// logger.
	Logger *zap.Logger

	// Packages is the package search order. Empty means DefaultPackages.
	Packages []string
}

// Loader holds registered units and tracks which have been initialized.
type Loader struct {
	sink     logsink.Sink
	log      *zap.Logger
	units    map[string]map[string]*Unit // package -> key -> unit
	loaded   map[string]bool
	packages []string
	order    []string
	mu       sync.Mutex
}

// New creates a loader with default configuration.
func New() *Loader {
	return NewWithConfig(nil)
}

// NewWithConfig creates a loader.
func NewWithConfig(cfg *Config) *Loader {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.Logger == nil {
		c.Logger = Logger()
	}
	if c.Sink == nil {
		c.Sink = logsink.NewZap(c.Logger)
	}
	if len(c.Packages) == 0 {
		c.Packages = DefaultPackages
	}
	return &Loader{
		sink:     c.Sink,
		log:      c.Logger,
		units:    make(map[string]map[string]*Unit),
		loaded:   make(map[string]bool),
		packages: slices.Clone(c.Packages),
	}
}

// Packages returns the package search order.
func (l *Loader) Packages() []string {
	return slices.Clone(l.packages)
}

// Register adds a unit. Registering the same module twice in one package
// is an error; the same module may exist in several packages, in which
// case the search order decides which one loads.
func (l *Loader) Register(u Unit) error {
	if u.Name == "" {
		return errors.InvalidInput(errors.PhaseLoad, "unit has no name")
	}
	pkg := u.Package
	if pkg == "" {
		pkg = "."
	}
	key := ZEncode(u.Name)

	l.mu.Lock()
	defer l.mu.Unlock()

	byKey := l.units[pkg]
	if byKey == nil {
		byKey = make(map[string]*Unit)
		l.units[pkg] = byKey
	}
	if _, dup := byKey[key]; dup {
		return errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Path(u.Name).
			Detail("module registered twice in package %s", pkg).
			Build()
	}
	u.Package = pkg
	u.Dependencies = slices.Clone(u.Dependencies)
	byKey[key] = &u
	l.log.Debug("unit registered", zap.String("module", u.Name), zap.String("package", pkg))
	return nil
}

// Loaded reports whether the named module has been initialized.
func (l *Loader) Loaded(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded[ZEncode(name)]
}

// Order returns the names of initialized modules in initialization order.
func (l *Loader) Order() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.order)
}

// Load initializes the named module and everything it depends on.
// Loading an already initialized module is a no-op.
func (l *Loader) Load(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded[ZEncode(name)] {
		return nil
	}

	plan, err := l.plan(name)
	if err != nil {
		l.sink.Log(logsink.Error, fmt.Sprintf("cannot load module %s: %v", name, err))
		return err
	}

	for _, u := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.sink.Log(logsink.Debug, "initializing module "+u.Name)
		if u.Init != nil {
			if err := u.Init(ctx); err != nil {
				l.sink.Log(logsink.Error, fmt.Sprintf("error initializing module %s: %v", u.Name, err))
				return errors.InitFailed(u.Name, err)
			}
		}
		l.loaded[ZEncode(u.Name)] = true
		l.order = append(l.order, u.Name)
		l.log.Debug("module initialized",
			zap.String("module", u.Name),
			zap.String("path", Path(u.Package, u.Name)))
	}
	return nil
}

// resolve finds the unit for name following the package search order.
func (l *Loader) resolve(name string) *Unit {
	key := ZEncode(name)
	for _, pkg := range l.packages {
		if u, ok := l.units[pkg][key]; ok {
			return u
		}
	}
	return nil
}

const (
	unvisited = iota
	visiting
	done
)

// plan returns the not yet loaded units reachable from name in
// dependency-first order.
func (l *Loader) plan(name string) ([]*Unit, error) {
	var (
		plan    []*Unit
		missing []string
		cycle   []string
		state   = make(map[string]int)
		stack   []string
	)

	var visit func(from, name string)
	visit = func(from, name string) {
		key := ZEncode(name)
		if l.loaded[key] || cycle != nil {
			return
		}
		switch state[key] {
		case done:
			return
		case visiting:
			i := slices.Index(stack, name)
			cycle = append(slices.Clone(stack[i:]), name)
			return
		}

		u := l.resolve(name)
		if u == nil {
			missing = append(missing, from+"#"+name)
			state[key] = done
			return
		}

		state[key] = visiting
		stack = append(stack, name)
		for _, dep := range u.Dependencies {
			visit(name, dep)
		}
		stack = stack[:len(stack)-1]
		state[key] = done
		plan = append(plan, u)
	}
	visit("", name)

	if cycle != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindCycle).
			Value(cycle).
			Detail("module dependency cycle: %s", strings.Join(cycle, " -> ")).
			Build()
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingDependenciesError(missing)
	}
	return plan, nil
}
