package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDispatch Phase = "dispatch" // closure application
	PhaseEval     Phase = "eval"     // trampoline interpreter
	PhaseSchedule Phase = "schedule" // run queue and forcing
	PhaseMVar     Phase = "mvar"     // synchronizing variables
	PhaseBuffer   Phase = "buffer"   // byte buffer primitives
	PhaseLoad     Phase = "load"     // module loading
	PhaseConfig   Phase = "config"   // configuration files
	PhaseMarshal  Phase = "marshal"  // host <-> runtime value conversion
	PhaseStable   Phase = "stable"   // stable pointer table
	PhaseHost     Phase = "host"     // host function registration and calls
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch      Kind = "type_mismatch"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindInvalidData       Kind = "invalid_data"
	KindUnsupported       Kind = "unsupported"
	KindAllocation        Kind = "allocation"
	KindNilPointer        Kind = "nil_pointer"
	KindNotFound          Kind = "not_found"
	KindNotInitialized    Kind = "not_initialized"
	KindInvalidInput      Kind = "invalid_input"
	KindStackOverflow     Kind = "stack_overflow"
	KindProtocol          Kind = "protocol"
	KindCycle             Kind = "cycle"
	KindNotComplete       Kind = "not_complete"
	KindReentrant         Kind = "reentrant"
	KindMissingDependency Kind = "missing_dependency"
	KindInit              Kind = "init"
	KindClosed            Kind = "closed"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Path     []string
	ThreadID uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.ThreadID != 0 {
		b.WriteString(" in thread ")
		b.WriteString(fmt.Sprint(e.ThreadID))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Fatal reports whether the error is an engine condition that user-level
// exception handlers must never observe.
func (e *Error) Fatal() bool {
	return e.Kind == KindStackOverflow || e.Kind == KindProtocol
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Thread records the logical thread the error belongs to
func (b *Builder) Thread(id uint64) *Builder {
	b.err.ThreadID = id
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// StackOverflow creates the fatal frame-stack overflow marker
func StackOverflow(threadID uint64, depth int) *Error {
	return &Error{
		Phase:    PhaseEval,
		Kind:     KindStackOverflow,
		ThreadID: threadID,
		Detail:   fmt.Sprintf("frame stack depth %d exceeds limit", depth),
		Value:    depth,
	}
}

// Protocol creates an internal protocol violation error
func Protocol(threadID uint64, detail string) *Error {
	return &Error{
		Phase:    PhaseEval,
		Kind:     KindProtocol,
		ThreadID: threadID,
		Detail:   detail,
	}
}

// Cycle creates a re-entrant forcing error for a thunk under evaluation
func Cycle(threadID uint64) *Error {
	return &Error{
		Phase:    PhaseEval,
		Kind:     KindCycle,
		ThreadID: threadID,
		Detail:   "thunk forced while under evaluation by the same thread",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, want string, got any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Detail: fmt.Sprintf("expected %s, got %T", want, got),
		Value:  got,
	}
}

// NotComplete creates an error for reading a thread that has not finished
func NotComplete(threadID uint64) *Error {
	return &Error{
		Phase:    PhaseSchedule,
		Kind:     KindNotComplete,
		ThreadID: threadID,
		Detail:   "thread is not complete",
	}
}

// Reentrant creates an error for driving the scheduler from inside a thread
func Reentrant(activeID uint64) *Error {
	return &Error{
		Phase:    PhaseSchedule,
		Kind:     KindReentrant,
		ThreadID: activeID,
		Detail:   "scheduler drained from inside a running thread",
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		Detail: "nil " + what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Closed creates an error for operations on a released component
func Closed(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", component),
	}
}

// InitFailed creates a module initialization error
func InitFailed(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInit,
		Path:   []string{module},
		Detail: "module init",
		Cause:  cause,
	}
}

// MissingModule represents a single unresolved dependency edge
type MissingModule struct {
	Module     string // e.g., "GHC.Base"
	Dependency string // e.g., "GHC.Types"
}

// MissingDependenciesError is returned when loading fails because modules
// reference dependencies that were never registered
type MissingDependenciesError struct {
	Missing []MissingModule
}

// NewMissingDependenciesError creates an error from "module#dependency" keys
func NewMissingDependenciesError(edges []string) *MissingDependenciesError {
	result := &MissingDependenciesError{
		Missing: make([]MissingModule, 0, len(edges)),
	}
	for _, edge := range edges {
		mod, dep := parseEdgeKey(edge)
		result.Missing = append(result.Missing, MissingModule{
			Module:     mod,
			Dependency: dep,
		})
	}
	return result
}

func parseEdgeKey(key string) (module, dependency string) {
	mod, dep, found := strings.Cut(key, "#")
	if found {
		return mod, dep
	}
	return "", key
}

func (e *MissingDependenciesError) Error() string {
	if len(e.Missing) == 0 {
		return "[load] missing_dependency: no modules specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("missing %d module(s):\n", len(e.Missing)))

	// Group by requiring module
	byMod := make(map[string][]string)
	var order []string
	for _, m := range e.Missing {
		if _, exists := byMod[m.Module]; !exists {
			order = append(order, m.Module)
		}
		byMod[m.Module] = append(byMod[m.Module], m.Dependency)
	}

	for _, mod := range order {
		b.WriteString("\n  ")
		if mod == "" {
			b.WriteString("(root)")
		} else {
			b.WriteString(mod)
		}
		b.WriteString(":\n")
		for _, dep := range byMod[mod] {
			b.WriteString("    - ")
			b.WriteString(dep)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *MissingDependenciesError) Is(target error) bool {
	_, ok := target.(*MissingDependenciesError)
	return ok
}
