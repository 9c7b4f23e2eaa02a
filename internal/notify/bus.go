package notify

import (
	"context"
	"sync"
	"time"
)

// Event is a timed occurrence published on a Bus
type Event struct {
	Name     string
	Start    time.Time
	Duration time.Duration
	Payload  map[string]any
}

// Listener receives events for the name it subscribed to. The context is the
// one the publisher was running under, so request-scoped values are visible.
type Listener func(ctx context.Context, ev Event)

type subscription struct {
	id uint64
	fn Listener
}

// Bus is a concurrency-safe in-process publish/subscribe hub keyed by event name
type Bus struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[string][]subscription // key: event name -> value: subscribed listeners
}

// NewBus creates an empty Bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]subscription),
	}
}

// Subscribe registers fn for events published under name. The returned func
// removes the listener; calling it more than once is a no-op.
func (b *Bus) Subscribe(name string, fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners[name] = append(b.listeners[name], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(name, id) })
	}
}

func (b *Bus) remove(name string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.listeners[name]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		// copy so slices already handed to Publish stay intact
		rest := make([]subscription, 0, len(subs)-1)
		rest = append(rest, subs[:i]...)
		rest = append(rest, subs[i+1:]...)
		if len(rest) == 0 {
			delete(b.listeners, name)
		} else {
			b.listeners[name] = rest
		}
		return
	}
}

// Publish delivers ev synchronously to every listener of ev.Name
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.listeners[ev.Name]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(ctx, ev)
	}
}

// Instrument runs fn, then publishes an event named name carrying the elapsed
// time. The event is published whether or not fn fails.
func (b *Bus) Instrument(ctx context.Context, name string, payload map[string]any, fn func() error) error {
	start := time.Now()
	err := fn()
	b.Publish(ctx, Event{
		Name:     name,
		Start:    start,
		Duration: time.Since(start),
		Payload:  payload,
	})
	return err
}

// Subscribed reports whether anything listens for name
func (b *Bus) Subscribed(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name]) > 0
}
