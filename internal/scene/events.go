package scene

import (
	"sync"
	"time"
)

// EventType identifies what a parse produced.
type EventType string

const (
	// EventChanged is published after a successful parse replaced the tree.
	EventChanged EventType = "changed"
	// EventError is published when the text did not parse; the previous
	// tree stays current.
	EventError EventType = "error"
	// EventWarning is published for recoverable issues such as duplicate keys.
	EventWarning EventType = "warning"
)

// Event is one notification from the engine. Line is 0-based, or -1 when
// the issue has no position.
type Event struct {
	Type      EventType
	Message   string
	Line      int
	Timestamp time.Time
}

// Listener consumes published events.
type Listener interface {
	Handle(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Handle calls f.
func (f ListenerFunc) Handle(e Event) { f(e) }

// bus is a simple observer dispatcher.
type bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

func (b *bus) subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

func (b *bus) publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, l := range b.listeners {
		l.Handle(e)
	}
}
