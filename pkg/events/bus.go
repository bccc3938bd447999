package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/totpmfa/pkg/logger"
)

// Result tells the bus whether dispatch should continue.
type Result int

const (
	// Continue lets remaining listeners and the default action run.
	Continue Result = iota
	// PreventDefault stops dispatch and cancels the default action.
	PreventDefault
)

func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case PreventDefault:
		return "prevent_default"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Listener handles a single event. Listeners run synchronously on the
// emitting goroutine, in registration order.
type Listener func(ctx context.Context, payload any) Result

// Subscriber is the registration half of the bus handed to modules.
type Subscriber interface {
	On(event string, l Listener) (unsubscribe func())
}

type registration struct {
	id uint64
	fn Listener
}

// Bus is an in-process synchronous event bus. All methods are safe for
// concurrent use.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]registration
	nextID    uint64
	closed    bool
	log       *slog.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used to report listener panics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		listeners: make(map[string][]registration),
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// On registers l for event and returns a function removing it again.
// The returned function is idempotent. Registering on a closed bus is a no-op.
func (b *Bus) On(event string, l Listener) func() {
	if l == nil {
		return func() {}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	b.nextID++
	id := b.nextID
	b.listeners[event] = append(b.listeners[event], registration{id: id, fn: l})

	var once sync.Once
	return func() {
		once.Do(func() { b.off(event, id) })
	}
}

func (b *Bus) off(event string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.listeners[event]
	for i, r := range regs {
		if r.id == id {
			// copy so in-flight Emit snapshots stay valid
			next := make([]registration, 0, len(regs)-1)
			next = append(next, regs[:i]...)
			next = append(next, regs[i+1:]...)
			if len(next) == 0 {
				delete(b.listeners, event)
			} else {
				b.listeners[event] = next
			}
			return
		}
	}
}

// Emit dispatches payload to the listeners of event and reports whether one
// of them prevented the default action. Dispatch stops at the first
// PreventDefault. A panicking listener is logged and counts as PreventDefault.
func (b *Bus) Emit(ctx context.Context, event string, payload any) bool {
	b.mu.RLock()
	regs := b.listeners[event]
	b.mu.RUnlock()

	for _, r := range regs {
		if b.dispatch(ctx, event, r.fn, payload) == PreventDefault {
			return true
		}
	}
	return false
}

func (b *Bus) dispatch(ctx context.Context, event string, fn Listener, payload any) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			b.log.ErrorContext(ctx, "event listener panicked",
				logger.Event(event),
				slog.Any("panic", rec),
			)
			res = PreventDefault
		}
	}()
	return fn(ctx, payload)
}

// ListenerCount returns the number of listeners registered for event.
func (b *Bus) ListenerCount(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[event])
}

// Close removes every listener. Later registrations are ignored.
// Close is idempotent.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	clear(b.listeners)
	return nil
}
