package stable

// Ptr is a stable pointer handle. Ptr 0 is reserved and always invalid.
type Ptr uint32

// EventType identifies a table lifecycle event.
type EventType uint8

const (
	EventMade EventType = iota
	EventFreed
)

func (e EventType) String() string {
	switch e {
	case EventMade:
		return "made"
	case EventFreed:
		return "freed"
	}
	return "unknown"
}

// Event describes one table change.
type Event struct {
	Value any
	Ptr   Ptr
	Type  EventType
}

// Observer receives table lifecycle events.
type Observer interface {
	OnStableEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnStableEvent(e Event) { f(e) }

// Releaser is optionally implemented by values that need cleanup when
// their handle goes away.
type Releaser interface {
	Release()
}
