package rts

import (
	"fmt"
	"strings"
)

// Closure is a callable runtime value: a Func, Thunk, Pap or Data.
type Closure interface {
	// Arity is the number of arguments Evaluate consumes.
	Arity() int
	// Evaluate runs the closure's code on exactly Arity() arguments and
	// returns the next control object.
	Evaluate(args []any) any
}

// Func is a closure of fixed declared arity.
type Func struct {
	Name  string
	arity int
	entry Entry
}

// NewFunc creates a function of the given arity.
func NewFunc(arity int, entry Entry) *Func {
	if arity < 0 {
		arity = 0
	}
	return &Func{arity: arity, entry: entry}
}

// NewNamedFunc creates a function carrying a name for traces.
func NewNamedFunc(name string, arity int, entry Entry) *Func {
	f := NewFunc(arity, entry)
	f.Name = name
	return f
}

func (f *Func) Arity() int { return f.arity }

func (f *Func) Evaluate(args []any) any {
	return f.entry(args)
}

func (f *Func) String() string {
	if f.Name != "" {
		return fmt.Sprintf("<func %s/%d>", f.Name, f.arity)
	}
	return fmt.Sprintf("<func/%d>", f.arity)
}

// Pap is a partial application: a target closure and the arguments
// supplied to it so far.
type Pap struct {
	target Closure
	saved  []any
}

// NewPap wraps target with saved arguments. A Pap target is flattened so
// Paps never nest.
func NewPap(target Closure, args []any) *Pap {
	if p, ok := target.(*Pap); ok {
		return &Pap{target: p.target, saved: concatArgs(p.saved, args)}
	}
	return &Pap{target: target, saved: concatArgs(nil, args)}
}

func (p *Pap) Arity() int { return p.target.Arity() - len(p.saved) }

// Target returns the closure awaiting the remaining arguments.
func (p *Pap) Target() Closure { return p.target }

// Saved returns a copy of the arguments supplied so far.
func (p *Pap) Saved() []any { return concatArgs(nil, p.saved) }

// Evaluate prepends the saved arguments and re-dispatches on the target.
func (p *Pap) Evaluate(args []any) any {
	merged := concatArgs(p.saved, args)
	target := p.target
	return Jump{
		Target: func(a []any) any { return Apply(target, a...) },
		Args:   merged,
	}
}

func (p *Pap) String() string {
	return fmt.Sprintf("<pap %v +%d>", p.target, len(p.saved))
}

// Data is a fully evaluated constructor application.
type Data struct {
	Tag    int
	Fields []any
}

// NewData creates a constructor value.
func NewData(tag int, fields ...any) *Data {
	return &Data{Tag: tag, Fields: fields}
}

func (d *Data) Arity() int { return 0 }

func (d *Data) Evaluate([]any) any {
	return Result{Value: d}
}

// Field returns the i-th field or nil when absent.
func (d *Data) Field(i int) any {
	if i < 0 || i >= len(d.Fields) {
		return nil
	}
	return d.Fields[i]
}

func (d *Data) String() string {
	if len(d.Fields) == 0 {
		return fmt.Sprintf("#%d", d.Tag)
	}
	parts := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		parts[i] = fmt.Sprint(f)
	}
	return fmt.Sprintf("#%d(%s)", d.Tag, strings.Join(parts, ", "))
}

func concatArgs(a, b []any) []any {
	out := make([]any, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

var (
	_ Closure = (*Func)(nil)
	_ Closure = (*Pap)(nil)
	_ Closure = (*Data)(nil)
	_ Closure = (*Thunk)(nil)
)
