package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"stovemarket/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePlayerRegistered EventType = "player_registered"
	EventTypeListingCreated   EventType = "listing_created"
	EventTypeListingCancelled EventType = "listing_cancelled"
	EventTypeTradeExecuted    EventType = "trade_executed"
	EventTypeLootboxOpened    EventType = "lootbox_opened"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PlayerRegisteredEvent represents a new player joining the market
type PlayerRegisteredEvent struct {
	PlayerID       int64
	Username       string
	InitialBalance int64
}

func (e PlayerRegisteredEvent) Type() EventType {
	return EventTypePlayerRegistered
}

// ListingCreatedEvent represents a stove put up for sale
type ListingCreatedEvent struct {
	ListingID int64
	SellerID  int64
	StoveID   int64
	Price     int64
}

func (e ListingCreatedEvent) Type() EventType {
	return EventTypeListingCreated
}

// ListingCancelledEvent represents a listing withdrawn by its seller or an admin
type ListingCancelledEvent struct {
	ListingID   int64
	StoveID     int64
	CancelledBy int64
}

func (e ListingCancelledEvent) Type() EventType {
	return EventTypeListingCancelled
}

// TradeExecutedEvent represents a completed sale
type TradeExecutedEvent struct {
	TradeID   int64
	ListingID int64
	StoveID   int64
	TypeID    int64
	SellerID  int64
	BuyerID   int64
	Price     int64
}

func (e TradeExecutedEvent) Type() EventType {
	return EventTypeTradeExecuted
}

// LootboxOpenedEvent represents a stove minted from a lootbox
type LootboxOpenedEvent struct {
	LootboxID int64
	PlayerID  int64
	StoveID   int64
	TypeID    int64
	Rarity    models.Rarity
	Cost      int64
}

func (e LootboxOpenedEvent) Type() EventType {
	return EventTypeLootboxOpened
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	inflight sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range []EventType{
		EventTypePlayerRegistered,
		EventTypeListingCreated,
		EventTypeListingCancelled,
		EventTypeTradeExecuted,
		EventTypeLootboxOpened,
	} {
		b.Subscribe(eventType, handler)
	}
}

// Emit publishes an event to all registered handlers. Handlers run on their
// own goroutines; use Wait to block until they have returned.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	for i, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started by Emit has returned
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// TransactionalBus holds events raised inside a unit of work until the
// unit commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a pending queue in front of real. A nil real
// bus drops flushed events.
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush or Discard
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Flush emits queued events; called after a successful commit
func (b *TransactionalBus) Flush() {
	pending := b.pending
	b.pending = nil
	if b.real == nil {
		return
	}

	log.WithField("pendingEventCount", len(pending)).Debug("Flushing committed events")

	// Handlers outlive the unit of work, so they get a fresh context
	eventCtx := context.Background()
	for _, ev := range pending {
		b.real.Emit(eventCtx, ev)
	}
}

// Discard drops queued events; called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
