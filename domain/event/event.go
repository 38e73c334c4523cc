package event

import (
	"board-lab/domain/board"

	"github.com/google/uuid"
)

// DomainEvent is implemented by everything flowing through the fanout.
type DomainEvent interface {
	Sender() board.SenderID
}

// MessagePosted is emitted exactly once for every record the ledger
// accepts, synchronously, before Submit returns to the caller. Content is
// the verbatim accepted content.
type MessagePosted struct {
	ID      uuid.UUID
	Author  board.SenderID
	Content string
	At      uint64
	Index   int
}

func (m MessagePosted) Sender() board.SenderID {
	return m.Author
}

// ReviewedMessage is the annotated form produced by the review worker.
// The board never rewrites what the ledger appended: Content stays
// verbatim, the review only attaches metadata for subscribers.
type ReviewedMessage struct {
	ID           uuid.UUID
	Author       board.SenderID
	Content      string
	At           uint64
	Index        int
	Language     string
	FlaggedTerms []string
}

func (m ReviewedMessage) Sender() board.SenderID {
	return m.Author
}
