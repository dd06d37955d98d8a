package blackjack

import (
	"reflect"
	"sync"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a table event type with type safety
type EventType string

const (
	EventTypeRoundStart        EventType = "round_start"
	EventTypeCardDealt         EventType = "card_dealt"
	EventTypeInsuranceResolved EventType = "insurance_resolved"
	EventTypeActionRejected    EventType = "action_rejected"
	EventTypePlayerAction      EventType = "player_action"
	EventTypeHoleCardRevealed  EventType = "hole_card_revealed"
	EventTypeShoeReshuffled    EventType = "shoe_reshuffled"
	EventTypeRoundEnd          EventType = "round_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens at the table
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartEvent is published once the bet is escrowed
type RoundStartEvent struct {
	View      TableView
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// CardDealtEvent is published for every card leaving the shoe. Card is the
// zero value when dealt face down.
type CardDealtEvent struct {
	View      TableView
	To        Participant
	Card      deck.Card
	FaceDown  bool
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// InsuranceResolvedEvent is published after the insurance decision.
// DealerBlackjack is only reported for a taken stake.
type InsuranceResolvedEvent struct {
	View            TableView
	Taken           bool
	Stake           int
	Credit          int
	DealerBlackjack bool
	timestamp       time.Time
}

func (e InsuranceResolvedEvent) EventType() EventType { return EventTypeInsuranceResolved }
func (e InsuranceResolvedEvent) Timestamp() time.Time { return e.timestamp }

// ActionRejectedEvent is published when an agent decision is not legal.
// Decision is "bet" or the action name.
type ActionRejectedEvent struct {
	View      TableView
	Decision  string
	Amount    int
	Reason    error
	timestamp time.Time
}

func (e ActionRejectedEvent) EventType() EventType { return EventTypeActionRejected }
func (e ActionRejectedEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published after an accepted action is applied
type PlayerActionEvent struct {
	View      TableView
	Action    Action
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// HoleCardRevealedEvent is published when the dealer turns the hole card up
type HoleCardRevealedEvent struct {
	View      TableView
	Card      deck.Card
	timestamp time.Time
}

func (e HoleCardRevealedEvent) EventType() EventType { return EventTypeHoleCardRevealed }
func (e HoleCardRevealedEvent) Timestamp() time.Time { return e.timestamp }

// ShoeReshuffledEvent is published when the shoe is replaced
type ShoeReshuffledEvent struct {
	Info      deck.ReshuffleInfo
	timestamp time.Time
}

func (e ShoeReshuffledEvent) EventType() EventType { return EventTypeShoeReshuffled }
func (e ShoeReshuffledEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published when a round leaves the engine, settled or not
type RoundEndEvent struct {
	Result    RoundResult
	Cash      int
	timestamp time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to table events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a plain function to EventSubscriber
type SubscriberFunc func(event GameEvent)

func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Subscribers of a non-comparable type, such
// as SubscriberFunc or a struct value holding a slice, cannot be removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if subscriber == nil || !reflect.TypeOf(subscriber).Comparable() {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}

// EventRecorder collects events in order
type EventRecorder struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *EventRecorder) OnEvent(event GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events
func (r *EventRecorder) Events() []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]GameEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in order
func (r *EventRecorder) Types() []EventType {
	events := r.Events()
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.EventType()
	}
	return out
}
