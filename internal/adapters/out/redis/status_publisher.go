// Package redis fans dispatch events out to dashboards over Redis pub/sub.
//
// Subscribers receive one JSON document per message. Order status changes carry the
// order version, so a consumer that sees messages out of order can keep the newest.
//
// Publishing is asynchronous: the bus handler queues the encoded message and a single
// worker sends it. When the buffer is full the message is dropped and logged.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"workload/internal/core/domain/events"

	goredis "github.com/redis/go-redis/v9"
)

const (
	// DefaultChannel is used when no channel is configured.
	DefaultChannel = "workload.events"
	// DefaultBufferSize is how many encoded messages may wait for the worker.
	DefaultBufferSize = 256

	publishTimeout = 2 * time.Second
)

// Message is the JSON document published for every forwarded event.
type Message struct {
	Type        string    `json:"type"`
	OccurredAt  time.Time `json:"occurredAt"`
	OrderNumber string    `json:"orderNumber"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Version     int64     `json:"version,omitempty"`
	WorkUnitID  string    `json:"workUnitId,omitempty"`
	Group       string    `json:"group,omitempty"`
	StaffID     string    `json:"staffId,omitempty"`
}

// publisher is the part of the go-redis client StatusPublisher needs.
type publisher interface {
	Publish(ctx context.Context, channel string, message any) *goredis.IntCmd
}

type outbound struct {
	msgType     string
	orderNumber string
	payload     []byte
}

// StatusPublisher forwards OrderStatusChanged and WorkUnitAssigned events to a Redis channel.
//
// Handle only encodes the event and hands it to a bounded buffer; a single worker
// goroutine owns the Redis calls. When the buffer is full the message is dropped and
// logged. Publishing failures never reach the dispatch engine.
type StatusPublisher struct {
	client  publisher
	channel string
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan outbound
	done   chan struct{}
}

// Option configures a StatusPublisher.
type Option func(*StatusPublisher)

// WithBufferSize sets how many encoded messages may wait for the worker.
// Values below one are ignored.
func WithBufferSize(size int) Option {
	return func(p *StatusPublisher) {
		if size > 0 {
			p.queue = make(chan outbound, size)
		}
	}
}

// NewClient creates a go-redis client and checks connectivity.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// NewStatusPublisher creates a publisher writing to channel and starts its worker. An
// empty channel falls back to DefaultChannel. Close stops the worker.
func NewStatusPublisher(client publisher, channel string, logger *slog.Logger, opts ...Option) *StatusPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &StatusPublisher{
		client:  client,
		channel: channel,
		logger:  logger.With("component", "StatusPublisher"),
		queue:   make(chan outbound, DefaultBufferSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	go p.run()
	return p
}

// Attach subscribes the publisher to the event types it forwards.
func (p *StatusPublisher) Attach(bus *events.Bus) []events.SubscriptionID {
	return []events.SubscriptionID{
		bus.Subscribe(events.OrderStatusChanged, p.Handle),
		bus.Subscribe(events.WorkUnitAssigned, p.Handle),
	}
}

// Handle queues a single event for publishing without waiting for Redis. Event types
// it does not forward are ignored, and so is everything after Close.
func (p *StatusPublisher) Handle(ctx context.Context, event events.Event) {
	msg, ok := newMessage(event)
	if !ok {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode event", "type", msg.Type, "error", err)
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}

	select {
	case p.queue <- outbound{msgType: msg.Type, orderNumber: msg.OrderNumber, payload: payload}:
	default:
		p.logger.WarnContext(ctx, "publish buffer full, event dropped",
			"type", msg.Type,
			"order_number", msg.OrderNumber,
			"capacity", cap(p.queue),
		)
	}
}

// Close stops accepting events and waits until the worker has published, or failed to
// publish, every buffered message. It is safe to call more than once.
func (p *StatusPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done
}

func (p *StatusPublisher) run() {
	defer close(p.done)

	for out := range p.queue {
		p.publish(out)
	}
}

func (p *StatusPublisher) publish(out outbound) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, out.payload).Err(); err != nil {
		p.logger.Warn("failed to publish event",
			"type", out.msgType,
			"order_number", out.orderNumber,
			"channel", p.channel,
			"error", err,
		)
		return
	}

	p.logger.Debug("event published", "type", out.msgType, "order_number", out.orderNumber)
}

func newMessage(event events.Event) (Message, bool) {
	switch e := event.(type) {
	case events.OrderStatusChangedEvent:
		return Message{
			Type:        string(e.EventType()),
			OccurredAt:  e.Timestamp(),
			OrderNumber: e.OrderNumber.String(),
			From:        e.From.String(),
			To:          e.To.String(),
			Version:     e.Version,
		}, true
	case events.WorkUnitEvent:
		if e.EventType() != events.WorkUnitAssigned {
			return Message{}, false
		}
		return Message{
			Type:        string(e.EventType()),
			OccurredAt:  e.Timestamp(),
			OrderNumber: e.OrderNumber.String(),
			WorkUnitID:  e.WorkUnitID.String(),
			Group:       e.Group.String(),
			StaffID:     e.StaffID.String(),
		}, true
	default:
		return Message{}, false
	}
}
