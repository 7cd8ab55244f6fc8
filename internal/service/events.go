package service

import (
	"sync"

	"blogauto/internal/render"
)

// EventType defines the type of event
type EventType string

const (
	EventSurfaceOpened  EventType = "surface_opened"
	EventSurfaceClosed  EventType = "surface_closed"
	EventContentUpdated EventType = "content_updated"
	EventCursorUpdated  EventType = "cursor_updated"
	EventConfigReloaded EventType = "config_reloaded"

	// Visual changes replayed by the browser
	EventContainerMounted   EventType = render.EventContainerMounted
	EventContainerUnmounted EventType = render.EventContainerUnmounted
	EventIndicatorAdded     EventType = render.EventIndicatorAdded
	EventIndicatorRemoved   EventType = render.EventIndicatorRemoved
	EventBadgeShown         EventType = render.EventBadgeShown
	EventBadgeFading        EventType = render.EventBadgeFading
	EventBadgeRemoved       EventType = render.EventBadgeRemoved
)

// Event represents an event that occurred in the system
type Event struct {
	Type      EventType `json:"type"`
	SurfaceID string    `json:"surface_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// Scope returns the surface the event belongs to, empty for global events
func (e Event) Scope() string {
	return e.SurfaceID
}

// EventBus allows publishing and subscribing to events.
// Publish never blocks; a slow subscriber misses events.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Unsubscribe removes a subscriber. The channel is not closed.
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}

// RenderPublisher adapts the bus to render.NewEvents
func (eb *EventBus) RenderPublisher() render.PublishFunc {
	return func(eventType, surfaceID string, payload any) {
		eb.Publish(Event{Type: EventType(eventType), SurfaceID: surfaceID, Payload: payload})
	}
}
