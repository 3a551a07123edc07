package event

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event types published by the core manager.
const (
	TypeCoreState = "core_state"
	TypeCoreLog   = "core_log"
	TypeCoreExit  = "core_exit"
)

// DefaultBufferSize is the per-subscription queue length.
const DefaultBufferSize = 256

// Event is the envelope delivered to subscribers and written to event streams.
type Event struct {
	Type      string          `json:"type"`
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"` // Unix milliseconds
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// New builds an event with a fresh ID. A payload that cannot be encoded is
// dropped from the envelope.
func New(typ string, payload any) Event {
	ev := Event{
		Type:      typ,
		ID:        ulid.Make().String(),
		Timestamp: time.Now().UnixMilli(),
	}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			ev.Payload = data
		}
	}
	return ev
}

// Option configures a Bus.
type Option func(*Bus)

// WithBufferSize sets the per-subscription queue length.
func WithBufferSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.bufferSize = n
		}
	}
}

// WithDropHook registers a callback invoked once per event dropped for a
// full subscription. It runs on the publisher's goroutine.
func WithDropHook(fn func(Event)) Option {
	return func(b *Bus) {
		b.onDrop = fn
	}
}

// Bus fans events out to subscribers.
type Bus struct {
	mu         sync.RWMutex
	subs       map[uint64]*Subscription
	nextID     uint64
	bufferSize int
	onDrop     func(Event)
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		subs:       make(map[uint64]*Subscription),
		bufferSize: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers ev to every subscriber without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.subs {
		select {
		case s.ch <- ev:
		default:
			if b.onDrop != nil {
				b.onDrop(ev)
			}
		}
	}
}

// Emit is shorthand for Publish(New(typ, payload)).
func (b *Bus) Emit(typ string, payload any) {
	b.Publish(New(typ, payload))
}

// Subscribe registers a new subscriber. The caller must Close it.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s := &Subscription{
		id:  b.nextID,
		bus: b,
		ch:  make(chan Event, b.bufferSize),
	}
	b.subs[s.id] = s
	return s
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[s.id]; ok {
		delete(b.subs, s.id)
		close(s.ch)
	}
}

// Subscription is one subscriber's ordered view of the bus.
type Subscription struct {
	id   uint64
	bus  *Bus
	ch   chan Event
	once sync.Once
}

// C returns the delivery channel. It is closed after Close.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Close detaches the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.remove(s)
	})
}
