package event

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a published message.
type Event struct {
	Topic   Topic
	Payload any
	Time    time.Time
}

// Handler receives events.
type Handler func(Event)

// PanicHandler is called when a handler panics.
type PanicHandler func(e Event, recovered any)

// Publisher is the publishing half of a bus.
type Publisher interface {
	Publish(topic Topic, payload any)
}

// Subscription is a live registration on a bus.
type Subscription struct {
	ID      string
	Pattern Topic
	bus     *Bus
}

// Unsubscribe removes the subscription. Calling it twice is harmless.
func (s Subscription) Unsubscribe() {
	if s.bus != nil {
		s.bus.unsubscribe(s.ID)
	}
}

type subscription struct {
	id      string
	pattern Topic
	handler Handler
}

// Bus is a synchronous topic-based event bus.
type Bus struct {
	mu      sync.RWMutex
	subs    []subscription
	onPanic PanicHandler
	now     func() time.Time
}

// Option configures a Bus.
type Option func(*Bus)

// WithPanicHandler sets the hook invoked when a handler panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(b *Bus) {
		b.onPanic = h
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for every topic matching pattern.
func (b *Bus) Subscribe(pattern Topic, handler Handler) Subscription {
	id := uuid.NewString()

	b.mu.Lock()
	b.subs = append(b.subs, subscription{id: id, pattern: pattern, handler: handler})
	b.mu.Unlock()

	return Subscription{ID: id, Pattern: pattern, bus: b}
}

func (b *Bus) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Count returns the number of live subscriptions.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish delivers payload to every matching subscriber on the calling
// goroutine. Handlers may subscribe or unsubscribe while being called.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	matched := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if topic.Matches(s.pattern) {
			matched = append(matched, s.handler)
		}
	}
	b.mu.RUnlock()

	e := Event{Topic: topic, Payload: payload, Time: b.now()}
	for _, h := range matched {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil && b.onPanic != nil {
			b.onPanic(e, r)
		}
	}()
	h(e)
}
