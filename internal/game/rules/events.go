package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TriggerEventType indicates the category of a rules event.
type TriggerEventType string

const (
	// Movement events, fired in the movement processor's cascade order.
	TriggerOnMove        TriggerEventType = "ON_MOVE"
	TriggerOnLaneMoveOut TriggerEventType = "ON_LANE_MOVE_OUT"
	TriggerOnLaneMoveIn  TriggerEventType = "ON_LANE_MOVE_IN"

	// Chain events
	TriggerOnCardPlayed TriggerEventType = "ON_CARD_PLAYED"
	TriggerOnDestroyed  TriggerEventType = "ON_DESTROYED"
	TriggerOnTokenMade  TriggerEventType = "ON_TOKEN_CREATED"
)

// Event represents a state change that trigger hooks may react to.
type Event struct {
	Type      TriggerEventType
	ID        string
	DroneID   string
	PlayerID  string // owner of the drone the event is about
	ActorID   string // player whose card play caused the event
	CardID    string
	FromLane  string
	ToLane    string
	Amount    int
	Forced    bool // enemy entity moved against its owner's will
	Timestamp time.Time
}

// NewEvent creates an event with common fields populated.
func NewEvent(eventType TriggerEventType, droneID, playerID, actorID string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		DroneID:   droneID,
		PlayerID:  playerID,
		ActorID:   actorID,
		Timestamp: time.Now(),
	}
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType TriggerEventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type
// filtering. Everything is delivered inline on the publisher's goroutine;
// the engine is single-threaded within one chain commit.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[TriggerEventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[TriggerEventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType TriggerEventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	if typedListeners, ok := bus.typedListeners[event.Type]; ok {
		for _, listener := range typedListeners {
			listener.Callback(event)
		}
	}
}
