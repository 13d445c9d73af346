package stable

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/lazy-runtime/errors"
)

type slot struct {
	value any
	valid bool
}

// Table maps stable pointers to values.
type Table struct {
	log       *zap.Logger
	slots     []slot
	freeList  []Ptr
	observers []Observer
	mu        sync.Mutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewTable creates an empty table logging to the package logger.
func NewTable() *Table {
	return NewTableWithLogger(nil)
}

// NewTableWithLogger creates an empty table. A nil logger selects the
// package logger.
func NewTableWithLogger(log *zap.Logger) *Table {
	if log == nil {
		log = Logger()
	}
	return &Table{
		log:      log,
		slots:    make([]slot, 0, 64),
		freeList: make([]Ptr, 0, 16),
	}
}

// Make registers v and returns its handle.
func (t *Table) Make(v any) (Ptr, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, errors.Closed(errors.PhaseStable, "stable pointer table")
	}

	s := slot{value: v, valid: true}
	var p Ptr
	if n := len(t.freeList); n > 0 {
		p = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.slots[p-1] = s
	} else {
		t.slots = append(t.slots, s)
		p = Ptr(len(t.slots))
	}
	t.mu.Unlock()

	t.notify(Event{Type: EventMade, Ptr: p, Value: v})
	return p, nil
}

// Deref returns the value named by p.
func (t *Table) Deref(p Ptr) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.lookup(p)
	if !ok {
		return nil, errors.New(errors.PhaseStable, errors.KindNotFound).
			Value(p).
			Detail("stable pointer %d is not registered", p).
			Build()
	}
	return s.value, nil
}

// Free unregisters p. Freeing an invalid handle is an error.
func (t *Table) Free(p Ptr) error {
	t.mu.Lock()
	s, ok := t.lookup(p)
	if !ok {
		t.mu.Unlock()
		return errors.New(errors.PhaseStable, errors.KindNotFound).
			Value(p).
			Detail("free of unregistered stable pointer %d", p).
			Build()
	}
	t.slots[p-1] = slot{}
	t.freeList = append(t.freeList, p)
	t.mu.Unlock()

	if r, ok := s.value.(Releaser); ok {
		r.Release()
	}
	t.notify(Event{Type: EventFreed, Ptr: p, Value: s.value})
	return nil
}

// Len returns the number of registered values.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots) - len(t.freeList)
}

// Each calls fn for every registered handle until fn returns false.
// fn runs on a snapshot and may call back into the table.
func (t *Table) Each(fn func(Ptr, any) bool) {
	t.mu.Lock()
	type pair struct {
		v any
		p Ptr
	}
	live := make([]pair, 0, len(t.slots))
	for i, s := range t.slots {
		if s.valid {
			live = append(live, pair{p: Ptr(i + 1), v: s.value})
		}
	}
	t.mu.Unlock()

	for _, e := range live {
		if !fn(e.p, e.v) {
			return
		}
	}
}

// Subscribe adds an observer.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer added with Subscribe.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Close releases every registered value and rejects further Make calls.
// Closing twice is a no-op.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	slots := t.slots
	t.slots = nil
	t.freeList = nil
	t.mu.Unlock()

	released := 0
	for _, s := range slots {
		if !s.valid {
			continue
		}
		if r, ok := s.value.(Releaser); ok {
			r.Release()
			released++
		}
	}
	t.log.Debug("stable table closed", zap.Int("released", released))
	return nil
}

func (t *Table) lookup(p Ptr) (slot, bool) {
	if p == 0 || int(p) > len(t.slots) {
		return slot{}, false
	}
	s := t.slots[p-1]
	return s, s.valid
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnStableEvent(e)
	}
}
