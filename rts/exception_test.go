package rts

import (
	"context"
	"errors"
	"testing"
)

func TestTryCatch_Success(t *testing.T) {
	handled := 0
	body := action(func() any { return "V" })
	handler := NewFunc(1, func([]any) any {
		handled++
		return "H"
	})

	s := NewScheduler()
	if got := mustRun(t, s, TryCatch(body, handler)); got != "V" {
		t.Fatalf("got %v, want V", got)
	}
	if handled != 0 {
		t.Fatal("handler must not run when the action succeeds")
	}
}

func TestTryCatch_Raise(t *testing.T) {
	body := action(func() any {
		Raise("E")
		return nil
	})
	handler := NewFunc(1, func(args []any) any { return args[0].(string) + "!" })

	s := NewScheduler()
	if got := mustRun(t, s, TryCatch(body, handler)); got != "E!" {
		t.Fatalf("got %v, want E!", got)
	}
}

func TestTryCatch_PassesArguments(t *testing.T) {
	// action and handler both receive the trailing state token
	body := NewFunc(1, func(args []any) any {
		Raise(args[0])
		return nil
	})
	handler := NewFunc(2, func(args []any) any {
		return []any{args[0], args[1]}
	})

	s := NewScheduler()
	got := mustRun(t, s, TryCatch(body, handler, "world")).([]any)
	if got[0] != "world" || got[1] != "world" {
		t.Fatalf("got %v, want [world world]", got)
	}
}

func TestTryCatch_InnermostHandlerWins(t *testing.T) {
	var trail []string
	body := action(func() any {
		Raise("E")
		return nil
	})
	inner := NewFunc(1, func(args []any) any {
		trail = append(trail, "inner")
		return "inner"
	})
	outer := NewFunc(1, func(args []any) any {
		trail = append(trail, "outer")
		return "outer"
	})
	nestedTry := action(func() any { return TryCatch(body, inner) })

	s := NewScheduler()
	if got := mustRun(t, s, TryCatch(nestedTry, outer)); got != "inner" {
		t.Fatalf("got %v, want inner", got)
	}
	if len(trail) != 1 || trail[0] != "inner" {
		t.Fatalf("trail = %v", trail)
	}
}

func TestTryCatch_RethrowReachesOuter(t *testing.T) {
	body := action(func() any {
		Raise(1)
		return nil
	})
	inner := NewFunc(1, func(args []any) any {
		Raise(args[0].(int) + 1)
		return nil
	})
	outer := NewFunc(1, func(args []any) any { return args[0].(int) * 10 })
	nestedTry := action(func() any { return TryCatch(body, inner) })

	s := NewScheduler()
	if got := mustRun(t, s, TryCatch(nestedTry, outer)); got != 20 {
		t.Fatalf("got %v, want 20", got)
	}
}

func TestTryCatch_ReturnSkipsCatchFrames(t *testing.T) {
	// a value returned through a catch frame reaches the caller's handler
	body := action(func() any { return 3 })
	handler := NewFunc(1, func([]any) any { return -1 })

	s := NewScheduler()
	r := Bind(TryCatch(body, handler), func(v any) any { return v.(int) * 2 })
	if got := mustRun(t, s, r); got != 6 {
		t.Fatalf("got %v, want 6", got)
	}
}

func TestUncaughtException(t *testing.T) {
	body := action(func() any {
		Raise(errors.New("boom"))
		return nil
	})
	s := NewScheduler()
	_, err := s.Force(context.Background(), body)

	var exc *Exception
	if !errors.As(err, &exc) {
		t.Fatalf("expected *Exception, got %v", err)
	}
	if err.Error() != "uncaught exception: boom" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestForkedTryCatch(t *testing.T) {
	boom := action(func() any {
		Raise("boom")
		return nil
	})
	seven := NewFunc(1, func([]any) any { return 7 })
	guarded := action(func() any { return TryCatch(boom, seven) })
	main := action(func() any {
		return Bind(Fork(guarded), func(c any) any { return c.(*Thread).Join() })
	})

	s := NewScheduler()
	if got := mustForce(t, s, main); got != 7 {
		t.Fatalf("got %v, want 7", got)
	}
}

func TestMasking(t *testing.T) {
	body := NewFunc(1, func(args []any) any { return args[0] })
	s := NewScheduler()

	for name, r := range map[string]any{
		"mask":          MaskAsyncExceptions(body, "s"),
		"uninterrupted": MaskUninterruptible(body, "s"),
		"unmask":        UnmaskAsyncExceptions(body, "s"),
	} {
		if got := mustRun(t, s, r); got != "s" {
			t.Fatalf("%s: got %v, want s", name, got)
		}
	}
	if got := mustRun(t, s, MaskingState()); got != 0 {
		t.Fatalf("masking state = %v, want 0", got)
	}
}
