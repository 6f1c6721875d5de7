package ecs

// Event is a notification payload raised by a system during a tick. Payload
// types live in the component package.
type Event struct {
	Data any
}

// EventQueue is a simple FIFO queue. The game loop drains it once per tick so
// each event is observed at most once.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Pending returns the queued events without consuming them.
func (q *EventQueue) Pending() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// EventsOf filters a drained batch down to one payload type.
func EventsOf[T any](events []Event) []T {
	var out []T
	for _, evt := range events {
		if v, ok := evt.Data.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
