package sink

import (
	"board-lab/domain/board"
	"board-lab/domain/event"
	"context"
	"sync"
)

// Timeline holds a simple in-memory projection of the board, the way a
// front-end displays it: newest first. The ledger itself stays oldest
// first; this ordering is derived, not authoritative.
type Timeline struct {
	mu       sync.RWMutex
	messages []board.Record
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	if evt, ok := e.(event.ReviewedMessage); ok {
		t.mu.Lock()
		t.messages = append(t.messages, fromEvent(evt))
		t.mu.Unlock()
	}
	return nil
}

// Snapshot returns the projected messages newest first.
func (t *Timeline) Snapshot() []board.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]board.Record, len(t.messages))
	for i, msg := range t.messages {
		out[len(t.messages)-1-i] = msg
	}
	return out
}

// Len reports how many messages the projection has observed.
func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

func fromEvent(evt event.ReviewedMessage) board.Record {
	return board.Record{
		Sender:    evt.Author,
		Content:   evt.Content,
		Timestamp: evt.At,
	}
}
