package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseBuffer,
				Kind:     KindOutOfBounds,
				Path:     []string{"arena", "buf"},
				ThreadID: 7,
				Detail:   "index 9 out of bounds",
			},
			contains: []string{"[buffer]", "out_of_bounds", "arena.buf", "thread 7", "index 9"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseEval,
				Kind:  KindStackOverflow,
			},
			contains: []string{"[eval]", "stack_overflow"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInit,
				Detail: "module init",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "init", "module init", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseConfig, KindInvalidData, cause, "decode")

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEval,
		Kind:  KindCycle,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseEval, Kind: KindCycle}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseSchedule, Kind: KindCycle}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseEval, Kind: KindProtocol}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseEval, Kind: KindCycle}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestError_Fatal(t *testing.T) {
	if !StackOverflow(1, 10001).Fatal() {
		t.Error("stack overflow must be fatal")
	}
	if !Protocol(1, "nil target").Fatal() {
		t.Error("protocol violation must be fatal")
	}
	if Cycle(1).Fatal() {
		t.Error("cycle errors are catchable")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseBuffer, KindOutOfBounds).
		Path("arena", "buf").
		Thread(3).
		Value(42).
		Cause(cause).
		Detail("index %d out of bounds (length %d)", 42, 8).
		Build()

	if err.Phase != PhaseBuffer {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseBuffer)
	}
	if err.Kind != KindOutOfBounds {
		t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
	}
	if len(err.Path) != 2 || err.Path[0] != "arena" || err.Path[1] != "buf" {
		t.Errorf("Path = %v, want [arena buf]", err.Path)
	}
	if err.ThreadID != 3 {
		t.Errorf("ThreadID = %d, want 3", err.ThreadID)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "index 42 out of bounds (length 8)" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("StackOverflow", func(t *testing.T) {
		err := StackOverflow(4, 10001)
		if err.Kind != KindStackOverflow || err.ThreadID != 4 {
			t.Errorf("Kind=%v ThreadID=%d", err.Kind, err.ThreadID)
		}
		if err.Value != 10001 {
			t.Errorf("Value = %v, want 10001", err.Value)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseDispatch, []string{"apply"}, "closure", 12)
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if !strings.Contains(err.Detail, "int") {
			t.Errorf("Detail = %q, should name the dynamic type", err.Detail)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseBuffer, 1024, 8)
		if err.Kind != KindAllocation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
		}
		if !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseBuffer, []string{"buf"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("NotComplete", func(t *testing.T) {
		err := NotComplete(9)
		if err.Kind != KindNotComplete || err.Phase != PhaseSchedule {
			t.Errorf("Phase=%v Kind=%v", err.Phase, err.Kind)
		}
	})

	t.Run("InitFailed", func(t *testing.T) {
		cause := errors.New("boom")
		err := InitFailed("GHC.Types", cause)
		if !errors.Is(err, cause) {
			t.Error("InitFailed should wrap its cause")
		}
		if !strings.Contains(err.Error(), "GHC.Types") {
			t.Errorf("message %q should name the module", err.Error())
		}
	})
}

func TestMissingDependenciesError(t *testing.T) {
	t.Run("single edge", func(t *testing.T) {
		err := NewMissingDependenciesError([]string{"GHC.Base#GHC.Types"})
		if len(err.Missing) != 1 {
			t.Fatalf("expected 1 edge, got %d", len(err.Missing))
		}
		if err.Missing[0].Module != "GHC.Base" || err.Missing[0].Dependency != "GHC.Types" {
			t.Errorf("edge = %+v", err.Missing[0])
		}
	})

	t.Run("grouped by module", func(t *testing.T) {
		err := NewMissingDependenciesError([]string{
			"Main#Data.List",
			"GHC.Base#GHC.Types",
			"Main#Data.Maybe",
		})
		msg := err.Error()
		for _, s := range []string{"missing 3", "Main:", "GHC.Base:", "Data.List", "Data.Maybe"} {
			if !strings.Contains(msg, s) {
				t.Errorf("message %q should contain %q", msg, s)
			}
		}
	})

	t.Run("root request", func(t *testing.T) {
		err := NewMissingDependenciesError([]string{"Main"})
		if !strings.Contains(err.Error(), "(root)") {
			t.Errorf("message %q should mark root requests", err.Error())
		}
	})

	t.Run("empty", func(t *testing.T) {
		err := NewMissingDependenciesError(nil)
		if !strings.Contains(err.Error(), "no modules specified") {
			t.Errorf("empty error should have specific message, got: %s", err.Error())
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		err := NewMissingDependenciesError([]string{"a#b"})
		if !errors.Is(err, &MissingDependenciesError{}) {
			t.Error("errors.Is should match MissingDependenciesError")
		}
	})
}
