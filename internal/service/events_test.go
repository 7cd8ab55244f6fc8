package service

import "testing"

func TestEventBus(t *testing.T) {
	t.Run("delivers to every subscriber", func(t *testing.T) {
		bus := NewEventBus()
		a := make(chan Event, 1)
		b := make(chan Event, 1)
		bus.Subscribe(a)
		bus.Subscribe(b)

		bus.Publish(Event{Type: EventSurfaceOpened, SurfaceID: "draft-1"})

		if ev := <-a; ev.Scope() != "draft-1" {
			t.Errorf("scope = %q", ev.Scope())
		}
		if ev := <-b; ev.Type != EventSurfaceOpened {
			t.Errorf("type = %q", ev.Type)
		}
	})

	t.Run("slow subscriber does not block", func(t *testing.T) {
		bus := NewEventBus()
		full := make(chan Event)
		bus.Subscribe(full)

		bus.Publish(Event{Type: EventSurfaceClosed})
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewEventBus()
		ch := make(chan Event, 1)
		bus.Subscribe(ch)
		bus.Unsubscribe(ch)

		bus.Publish(Event{Type: EventSurfaceClosed})
		if len(ch) != 0 {
			t.Error("unsubscribed channel received an event")
		}
	})

	t.Run("render publisher keeps type and scope", func(t *testing.T) {
		bus := NewEventBus()
		ch := make(chan Event, 1)
		bus.Subscribe(ch)

		bus.RenderPublisher()("indicator_removed", "draft-2", map[string]string{"id": "u1"})

		ev := <-ch
		if ev.Type != EventIndicatorRemoved || ev.SurfaceID != "draft-2" {
			t.Errorf("unexpected event: %+v", ev)
		}
	})
}
