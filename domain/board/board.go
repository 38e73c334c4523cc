// Package board contains the core concepts of the public message board.
// The Ledger is the single source of truth: an append-only log of accepted
// records plus the per-sender cooldown bookkeeping. Everything around it
// (workers, sinks, storage) only observes what the ledger decided.
package board

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	boarderr "board-lab/errors"
)

// AddressLength is the size in bytes of a sender address.
const AddressLength = 20

const (
	// DefaultCooldownTicks is the minimum number of ticks a sender must wait
	// between two accepted submissions.
	DefaultCooldownTicks uint64 = 30
	// DefaultMaxContentBytes bounds the byte length of an accepted message.
	DefaultMaxContentBytes = 280
)

// SenderID identifies the authenticated originator of a submission.
// It is opaque to the ledger: equality is exact binary equality.
type SenderID [AddressLength]byte

// ParseSenderID decodes a hex address, with or without the 0x prefix.
// Shorter inputs are left-padded with zero bytes so that compact test
// addresses like "0xa1" remain usable.
func ParseSenderID(s string) (SenderID, error) {
	var id SenderID
	trimmed := strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(trimmed)%2 != 0 {
		trimmed = "0" + trimmed
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return SenderID{}, fmt.Errorf("invalid sender address %q: %w", s, err)
	}
	if len(raw) > AddressLength {
		return SenderID{}, fmt.Errorf("sender address %q longer than %d bytes", s, AddressLength)
	}
	copy(id[AddressLength-len(raw):], raw)
	return id, nil
}

func (id SenderID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// Record is one immutable accepted entry of the board.
type Record struct {
	Sender    SenderID
	Content   string
	Timestamp uint64
}

// SubmitResult carries the dense index assigned to an accepted record.
type SubmitResult struct {
	Index  int
	Record Record
}

// Observer is notified exactly once for every accepted submission,
// synchronously, before Submit returns to the caller. Observers run while
// the ledger lock is held and must not call back into the ledger.
type Observer func(record Record, index int)

// Ledger owns the append-only record log and the last accepted timestamp
// per sender. A single mutex guards the full validate-then-mutate sequence,
// so a submission is never observed half applied. Reads take the shared
// lock and may run concurrently with each other.
type Ledger struct {
	mu         sync.RWMutex
	records    []Record
	lastSubmit map[SenderID]uint64
	cooldown   uint64
	maxContent int
	observers  []Observer
}

func NewLedger(observers ...Observer) *Ledger {
	return NewCustomLedger(DefaultCooldownTicks, DefaultMaxContentBytes, observers...)
}

// NewCustomLedger builds a ledger with non-default limits, used by lab
// configurations. Production keeps the defaults.
func NewCustomLedger(cooldownTicks uint64, maxContentBytes int, observers ...Observer) *Ledger {
	return &Ledger{
		lastSubmit: make(map[SenderID]uint64),
		cooldown:   cooldownTicks,
		maxContent: maxContentBytes,
		observers:  observers,
	}
}

// Submit runs the admission checks in order (cooldown, emptiness, length)
// and appends the record when all of them pass. The first failing check
// wins and the ledger is left untouched. The timestamp is supplied by the
// caller and must be non-decreasing across the global submission order; the
// ledger never reads a wall clock.
func (l *Ledger) Submit(sender SenderID, content string, now uint64) (SubmitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if last, ok := l.lastSubmit[sender]; ok && now < last+l.cooldown {
		return SubmitResult{}, boarderr.CooldownError{Remaining: last + l.cooldown - now}
	}
	if len(content) == 0 {
		return SubmitResult{}, boarderr.ErrEmptyMessage
	}
	if len(content) > l.maxContent {
		return SubmitResult{}, boarderr.ErrMessageTooLong
	}

	l.lastSubmit[sender] = now
	record := Record{Sender: sender, Content: content, Timestamp: now}
	l.records = append(l.records, record)
	index := len(l.records) - 1

	for _, notify := range l.observers {
		notify(record, index)
	}
	return SubmitResult{Index: index, Record: record}, nil
}

// ListAll returns a snapshot of every accepted record in append order,
// oldest first. Callers wanting a newest-first view derive it themselves.
func (l *Ledger) ListAll() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := make([]Record, len(l.records))
	copy(snapshot, l.records)
	return snapshot
}

// CooldownExpiry returns the tick at which the sender may submit again,
// or 0 if the sender never had an accepted submission.
func (l *Ledger) CooldownExpiry(sender SenderID) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	last, ok := l.lastSubmit[sender]
	if !ok {
		return 0
	}
	return last + l.cooldown
}

// Len reports how many records have been accepted so far.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
