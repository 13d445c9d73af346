package stable

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	rterrors "github.com/wippyai/lazy-runtime/errors"
)

type releaser struct {
	released int
}

func (r *releaser) Release() { r.released++ }

func TestTable_MakeDeref(t *testing.T) {
	tbl := NewTable()

	p1, err := tbl.Make("one")
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	p2, _ := tbl.Make(2)
	if p1 == 0 || p2 == 0 || p1 == p2 {
		t.Fatalf("handles = %d, %d", p1, p2)
	}

	v, err := tbl.Deref(p1)
	if err != nil || v != "one" {
		t.Fatalf("deref = %v, %v", v, err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("len = %d, want 2", tbl.Len())
	}
}

func TestTable_InvalidHandles(t *testing.T) {
	tbl := NewTable()
	p, _ := tbl.Make(nil)

	notFound := &rterrors.Error{Phase: rterrors.PhaseStable, Kind: rterrors.KindNotFound}
	tests := []struct {
		name string
		ptr  Ptr
	}{
		{"zero", 0},
		{"never issued", p + 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tbl.Deref(tt.ptr); !errors.Is(err, notFound) {
				t.Fatalf("deref err = %v", err)
			}
			if err := tbl.Free(tt.ptr); !errors.Is(err, notFound) {
				t.Fatalf("free err = %v", err)
			}
		})
	}

	if err := tbl.Free(p); err != nil {
		t.Fatalf("free: %v", err)
	}
	if err := tbl.Free(p); !errors.Is(err, notFound) {
		t.Fatalf("double free err = %v", err)
	}
}

func TestTable_ReusesFreedHandles(t *testing.T) {
	tbl := NewTable()
	a, _ := tbl.Make("a")
	b, _ := tbl.Make("b")
	_ = tbl.Free(a)
	_ = tbl.Free(b)

	c, _ := tbl.Make("c")
	if c != b {
		t.Fatalf("reuse = %d, want last freed %d", c, b)
	}
	if tbl.Len() != 1 {
		t.Fatalf("len = %d, want 1", tbl.Len())
	}
}

func TestTable_Release(t *testing.T) {
	tbl := NewTable()
	r1, r2 := &releaser{}, &releaser{}
	p, _ := tbl.Make(r1)
	_, _ = tbl.Make(r2)

	_ = tbl.Free(p)
	if r1.released != 1 {
		t.Fatalf("free released %d times", r1.released)
	}

	if err := tbl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := tbl.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if r1.released != 1 || r2.released != 1 {
		t.Fatalf("released = %d, %d", r1.released, r2.released)
	}

	_, err := tbl.Make(1)
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseStable, Kind: rterrors.KindClosed}) {
		t.Fatalf("make after close err = %v", err)
	}
}

func TestTable_Observers(t *testing.T) {
	tbl := NewTable()
	var events []Event
	obs := ObserverFunc(func(e Event) { events = append(events, e) })
	tbl.Subscribe(obs)

	p, _ := tbl.Make("x")
	_ = tbl.Free(p)
	if len(events) != 2 {
		t.Fatalf("events = %v", events)
	}
	if events[0].Type != EventMade || events[1].Type != EventFreed || events[1].Ptr != p {
		t.Fatalf("events = %+v", events)
	}

	// Func values are not comparable; use a pointer observer to test removal.
	counter := &countingObserver{}
	tbl.Subscribe(counter)
	tbl.Unsubscribe(counter)
	_, _ = tbl.Make("y")
	if counter.n != 0 {
		t.Fatalf("unsubscribed observer saw %d events", counter.n)
	}
}

type countingObserver struct{ n int }

func (c *countingObserver) OnStableEvent(Event) { c.n++ }

func TestTable_Each(t *testing.T) {
	tbl := NewTable()
	for i := 0; i < 5; i++ {
		_, _ = tbl.Make(i)
	}
	_ = tbl.Free(3)

	sum := 0
	tbl.Each(func(p Ptr, v any) bool {
		sum += v.(int)
		return true
	})
	if sum != 0+1+3+4 {
		t.Fatalf("sum = %d", sum)
	}

	n := 0
	tbl.Each(func(Ptr, any) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Fatalf("early stop visited %d", n)
	}
}

func TestTable_Concurrent(t *testing.T) {
	tbl := NewTable()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				p, err := tbl.Make(i)
				if err != nil {
					t.Errorf("make: %v", err)
					return
				}
				if v, err := tbl.Deref(p); err != nil || v != i {
					t.Errorf("deref = %v, %v", v, err)
					return
				}
				if err := tbl.Free(p); err != nil {
					t.Errorf("free: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if tbl.Len() != 0 {
		t.Fatalf("len = %d, want 0", tbl.Len())
	}
}

func TestTable_CloseLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tbl := NewTableWithLogger(zap.New(core))
	_, _ = tbl.Make(&releaser{})
	_ = tbl.Close()

	entries := logs.FilterMessage("stable table closed").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %v", logs.All())
	}
	if entries[0].ContextMap()["released"] != int64(1) {
		t.Fatalf("fields = %v", entries[0].ContextMap())
	}
}
