package interop

import (
	"context"
	"errors"
	"strings"
	"testing"

	rterrors "github.com/wippyai/lazy-runtime/errors"
	"github.com/wippyai/lazy-runtime/rts"
)

func TestIntRoundTrip(t *testing.T) {
	s := rts.NewScheduler()
	ctx := context.Background()

	tests := []struct {
		in   int
		want int32
	}{
		{0, 0},
		{42, 42},
		{-7, -7},
		{1 << 32, 0},
		{1<<31 + 5, -(1 << 31) + 5},
	}
	for _, tt := range tests {
		got, err := FromInt(ctx, s, ToInt(tt.in))
		if err != nil {
			t.Fatalf("FromInt(%d): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("FromInt(ToInt(%d)) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFromIntForcesThunks(t *testing.T) {
	s := rts.NewScheduler()
	inner := rts.NewThunk(func() any { return ToInt(9) })
	outer := rts.NewThunk(func() any { return inner })

	got, err := FromInt(context.Background(), s, outer)
	if err != nil {
		t.Fatalf("FromInt: %v", err)
	}
	if got != 9 {
		t.Fatalf("got %d", got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	s := rts.NewScheduler()
	for _, in := range []string{"", "hello", "héllo, 世界"} {
		got, err := FromString(context.Background(), s, ToString(in))
		if err != nil {
			t.Fatalf("FromString(%q): %v", in, err)
		}
		if got != in {
			t.Fatalf("round trip %q = %q", in, got)
		}
	}
}

// lazyString builds a string whose every cell and character is a thunk.
func lazyString(str string) any {
	if str == "" {
		return rts.NewThunk(func() any { return rts.NewData(tagNil) })
	}
	return rts.NewThunk(func() any {
		r := []rune(str)[0]
		ch := rts.NewThunk(func() any { return ToChar(r) })
		return rts.NewData(tagCons, ch, lazyString(string([]rune(str)[1:])))
	})
}

func TestFromStringLazy(t *testing.T) {
	s := rts.NewScheduler()
	got, err := FromString(context.Background(), s, lazyString("lazy"))
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	if got != "lazy" {
		t.Fatalf("got %q", got)
	}
}

func TestFromStringLong(t *testing.T) {
	s := rts.NewSchedulerWithConfig(&rts.Config{MaxStackDepth: 50})
	in := strings.Repeat("ab", 5000)
	got, err := FromString(context.Background(), s, ToString(in))
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	if got != in {
		t.Fatal("long string mismatch")
	}
}

func TestFromStringRejectsBadData(t *testing.T) {
	s := rts.NewScheduler()
	tests := []struct {
		name string
		v    any
		kind rterrors.Kind
	}{
		{"not data", 5, rterrors.KindTypeMismatch},
		{"unknown tag", rts.NewData(9), rterrors.KindInvalidData},
		{"bad char", rts.NewData(tagCons, "x", rts.NewData(tagNil)), rterrors.KindTypeMismatch},
		{"char box with wrong payload", rts.NewData(tagCons, rts.NewData(tagBox, "x"), rts.NewData(tagNil)), rterrors.KindTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromString(context.Background(), s, tt.v)
			if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseMarshal, Kind: tt.kind}) {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestFromIO(t *testing.T) {
	s := rts.NewScheduler()
	var world any
	greet := rts.NewFunc(2, func(args []any) any {
		world = args[1]
		return IOResult("hi " + args[0].(string))
	})

	v, err := FromIO(context.Background(), s, greet, "bob")
	if err != nil {
		t.Fatalf("FromIO: %v", err)
	}
	if v != "hi bob" {
		t.Fatalf("v = %v", v)
	}
	if world != RealWorld {
		t.Fatal("action did not receive the RealWorld token")
	}

	bad := rts.NewFunc(1, func([]any) any { return rts.NewData(tagPair, RealWorld) })
	if _, err := FromIO(context.Background(), s, bad); !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseMarshal, Kind: rterrors.KindInvalidData}) {
		t.Fatalf("err = %v", err)
	}
}
