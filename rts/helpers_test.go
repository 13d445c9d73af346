package rts

import (
	"context"
	"testing"
)

func mustForce(t *testing.T, s *Scheduler, c Closure, args ...any) any {
	t.Helper()
	v, err := s.Force(context.Background(), c, args...)
	if err != nil {
		t.Fatalf("force: %v", err)
	}
	return v
}

func mustRun(t *testing.T, s *Scheduler, r any) any {
	t.Helper()
	v, err := s.Run(context.Background(), r)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return v
}

// add3 sums three ints.
func add3() *Func {
	return NewNamedFunc("add3", 3, func(args []any) any {
		return args[0].(int) + args[1].(int) + args[2].(int)
	})
}

// action wraps a control-object producing body as an arity-0 closure.
func action(body func() any) *Func {
	return NewFunc(0, func([]any) any { return body() })
}
