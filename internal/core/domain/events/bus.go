package events

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

const wildcard Type = "*"

// Handler handles a published event.
type Handler func(ctx context.Context, event Event)

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Publisher is the side of the Bus the dispatch engine depends on.
type Publisher interface {
	Publish(ctx context.Context, events ...Event)
}

// Bus is a synchronous publish/subscribe bus.
//
// Handlers subscribed to a specific type run first, then wildcard handlers; within each
// group they run in subscription order.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[Type][]subscription
	nextID        atomic.Uint64
	logger        *slog.Logger
}

// NewBus creates an empty Bus. A nil logger falls back to slog.Default.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscriptions: make(map[Type][]subscription),
		logger:        logger.With("component", "EventBus"),
	}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(eventType Type, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := SubscriptionID(b.nextID.Add(1))
	b.subscriptions[eventType] = append(b.subscriptions[eventType], subscription{id: id, handler: handler})
	return id
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(handler Handler) SubscriptionID {
	return b.Subscribe(wildcard, handler)
}

// Unsubscribe removes a subscription. It reports whether the subscription existed.
func (b *Bus) Unsubscribe(id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id == id {
				b.subscriptions[eventType] = append(subs[:i:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish delivers the events in order. Each event reaches every handler before the
// next event is delivered.
func (b *Bus) Publish(ctx context.Context, events ...Event) {
	for _, event := range events {
		b.publish(ctx, event)
	}
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.subscriptions {
		count += len(subs)
	}
	return count
}

func (b *Bus) publish(ctx context.Context, event Event) {
	b.mu.RLock()
	specific := append([]subscription(nil), b.subscriptions[event.EventType()]...)
	all := append([]subscription(nil), b.subscriptions[wildcard]...)
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(ctx, sub.handler, event)
	}
	for _, sub := range all {
		b.safeCall(ctx, sub.handler, event)
	}
}

func (b *Bus) safeCall(ctx context.Context, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event handler panicked",
				"event", string(event.EventType()),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	handler(ctx, event)
}
