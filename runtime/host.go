package runtime

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/wippyai/lazy-runtime/errors"
	"github.com/wippyai/lazy-runtime/rts"
)

// Host is the interface for struct-based host modules.
// All exported methods (except Module) are registered as host functions.
type Host interface {
	// Module returns the dotted module name the functions belong to
	// (e.g., "Foreign.Math").
	Module() string
}

// ExplicitRegistrar allows hosts to provide exact function names when
// the automatic PascalCase-to-lowerCamelCase conversion doesn't apply.
type ExplicitRegistrar interface {
	Register() map[string]any
}

// HostRegistry holds Go functions exposed to runtime code as closures.
//
// A host function is strict: its arguments are forced to weak head normal
// form before the call. Boxed Int and Char values are unboxed when the
// parameter type asks for the payload. A trailing error result that is
// non-nil is raised as a runtime exception.
type HostRegistry struct {
	funcs map[string]map[string]*rts.Func
	mu    sync.RWMutex
}

func NewHostRegistry() *HostRegistry {
	return &HostRegistry{
		funcs: make(map[string]map[string]*rts.Func),
	}
}

func (r *HostRegistry) RegisterHost(h Host) error {
	module := h.Module()
	if module == "" {
		return errors.InvalidInput(errors.PhaseHost, "module cannot be empty")
	}

	if er, ok := h.(ExplicitRegistrar); ok {
		for name, handler := range er.Register() {
			if err := r.RegisterFunc(module, name, handler); err != nil {
				return err
			}
		}
		return nil
	}

	rv := reflect.ValueOf(h)
	rt := rv.Type()
	for i := 0; i < rt.NumMethod(); i++ {
		method := rt.Method(i)
		if !method.IsExported() || method.Name == "Module" {
			continue
		}
		if err := r.RegisterFunc(module, toLowerCamel(method.Name), rv.Method(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (r *HostRegistry) RegisterFunc(module, name string, fn any) error {
	if module == "" {
		return errors.InvalidInput(errors.PhaseHost, "module cannot be empty")
	}
	if name == "" {
		return errors.InvalidInput(errors.PhaseHost, "function name cannot be empty")
	}

	f, err := wrapHostFunc(module+"."+name, fn)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.funcs[module] == nil {
		r.funcs[module] = make(map[string]*rts.Func)
	}
	r.funcs[module][name] = f
	return nil
}

// Lookup returns the closure registered for module.name.
func (r *HostRegistry) Lookup(module, name string) (*rts.Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.funcs[module][name]
	return f, ok
}

// Modules returns the names of modules with registered functions.
func (r *HostRegistry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.funcs))
	for m := range r.funcs {
		out = append(out, m)
	}
	return out
}

var errorType = reflect.TypeFor[error]()

func wrapHostFunc(name string, fn any) (*rts.Func, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return nil, errors.New(errors.PhaseHost, errors.KindTypeMismatch).
			Path(name).
			Value(fn).
			Detail("handler must be a function, got %T", fn).
			Build()
	}
	ft := rv.Type()
	if ft.IsVariadic() {
		return nil, errors.Unsupported(errors.PhaseHost, name+": variadic host functions")
	}
	returnsErr := ft.NumOut() > 0 && ft.Out(ft.NumOut()-1) == errorType
	values := ft.NumOut()
	if returnsErr {
		values--
	}
	if values > 1 {
		return nil, errors.Unsupported(errors.PhaseHost, name+": more than one result value")
	}

	entry := func(args []any) any {
		forced := append([]any(nil), args...)
		return forceArgs(forced, 0, func(args []any) any {
			in := make([]reflect.Value, len(args))
			for i, a := range args {
				in[i] = hostArg(name, i, ft.In(i), a)
			}
			out := rv.Call(in)
			if returnsErr {
				if err, _ := out[len(out)-1].Interface().(error); err != nil {
					rts.Raise(err)
				}
			}
			if values == 0 {
				return rts.Result{Value: nil}
			}
			return rts.Result{Value: out[0].Interface()}
		})
	}
	return rts.NewNamedFunc(name, ft.NumIn(), entry), nil
}

func forceArgs(args []any, i int, k func([]any) any) any {
	if i == len(args) {
		return k(args)
	}
	return rts.Bind(rts.Eval(args[i]), func(v any) any {
		args[i] = v
		return forceArgs(args, i+1, k)
	})
}

// hostArg converts a forced runtime value to parameter type pt.
func hostArg(name string, i int, pt reflect.Type, a any) reflect.Value {
	if a == nil {
		switch pt.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(pt)
		}
	} else {
		v := reflect.ValueOf(a)
		if v.Type().AssignableTo(pt) {
			return v
		}
		// Unbox single-field constructors such as Int and Char.
		if d, ok := a.(*rts.Data); ok && len(d.Fields) == 1 && d.Fields[0] != nil {
			if fv := reflect.ValueOf(d.Fields[0]); fv.Type().AssignableTo(pt) {
				return fv
			}
		}
	}
	rts.Raise(errors.New(errors.PhaseHost, errors.KindTypeMismatch).
		Path(name).
		Value(a).
		Detail("argument %d: expected %s, got %T", i, pt, a).
		Build())
	return reflect.Value{}
}

// toLowerCamel converts PascalCase to lowerCamelCase.
// Handles leading acronyms: HTTPGet -> httpGet, ID -> id
func toLowerCamel(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n == 1 || n == len(runes):
		// single capital or all caps
	default:
		// Last uppercase before lowercase starts the next word
		if unicode.IsLower(runes[n]) {
			n--
		}
	}
	var b strings.Builder
	for i, r := range runes {
		if i < n {
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
