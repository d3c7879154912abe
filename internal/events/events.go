// Package events publishes ledger facts to downstream consumers once the
// transaction that produced them has committed.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DebtCreated = "debt.created"
	DebtSettled = "debt.settled"
	DebtRemoved = "debt.removed"
	SaleCreated = "sale.created"
	SaleVoided  = "sale.voided"
	SaleDeleted = "sale.deleted"
	CashClosed  = "cash.closed"
)

type Event struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Key       string      `json:"key"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewEvent(eventType, key string, payload interface{}) Event {
	return Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Key:       key,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Notify publishes and logs a failure instead of returning it: by the time
// an event is emitted its transaction is already committed.
func Notify(ctx context.Context, p Publisher, log logger.ZapLogger, eventType, key string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, NewEvent(eventType, key, payload)); err != nil {
		log.Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	logger logger.ZapLogger
}

func NewLogPublisher(log logger.ZapLogger) *LogPublisher {
	return &LogPublisher{logger: log}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Debug("event", zap.String("event_type", event.EventType), zap.String("key", event.Key))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// MemoryPublisher keeps every event in order. Tests and local tooling read
// them back with Events.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Types lists the event types in publication order.
func (p *MemoryPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}
