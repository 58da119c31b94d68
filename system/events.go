package system

// EventKind identifies level events.
type EventKind string

const (
	EventSpawned    EventKind = "spawned"
	EventJumped     EventKind = "jumped"
	EventDied       EventKind = "died"
	EventCheckpoint EventKind = "checkpoint"
	EventWon        EventKind = "won"
	EventAbandoned  EventKind = "abandoned"
	EventPaused     EventKind = "paused"
	EventResumed    EventKind = "resumed"
)

// Event is emitted by a level for the audio and persistence layers. The
// counters are the level's totals at the time of the event.
type Event struct {
	Kind   EventKind
	Level  string
	Deaths int
	Jumps  int
	Ticks  int
}

// EventQueue is a simple FIFO queue.
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

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
