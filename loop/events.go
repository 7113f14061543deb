package loop

// Event is an outward notification drained by whoever composes the
// simulation loop (UI, audio, effects). The core never depends on a
// subscriber existing.
type Event struct {
	Type string
	Data any
}

const (
	EventSessionStarted = "session_started"
	EventSessionEnded   = "session_ended"
	EventCloneCompleted = "clone_completed"
	EventCloneStuck     = "clone_stuck"
	EventCloneEvicted   = "clone_evicted"
)

// SessionEnded is the payload for EventSessionEnded. CloneID is only
// meaningful when CloneCreated is true; a zero-frame session creates no
// clone.
type SessionEnded struct {
	CloneCreated bool
	CloneID      int
	Frames       int
}

// CloneEvent is the payload for the per-clone event types.
type CloneEvent struct {
	ID int
}

// EventQueue is a simple FIFO queue, polled once per tick.
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
