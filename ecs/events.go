package ecs

// EventType names a world-level event.
type EventType string

const (
	// EventGameOver asks the outer game loop to restart from the last
	// checkpoint.
	EventGameOver EventType = "game_over"
	// EventCheckpoint carries the new checkpoint number as Data.
	EventCheckpoint EventType = "checkpoint"
)

// Event is a generic world event payload.
type Event struct {
	Type EventType
	Data any
}

// EventQueue is a simple FIFO queue drained by the outer game loop.
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

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
