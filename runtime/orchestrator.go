package runtime

import (
	"board-lab/contract"
	"board-lab/domain/board"
	"board-lab/domain/event"
	"board-lab/moderation"
	"board-lab/observability"
	"board-lab/runtime/workers"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

//go:embed flagged/*
var flaggedFolder embed.FS

// Orchestrator wires the ledger to the pipeline: one serialized board
// worker admitting submissions, a review worker annotating accepted
// messages, and a fanout delivering them to sinks and subscribers.
// Reads bypass the pipeline entirely and hit the ledger directly.
type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	ledger         *board.Ledger
	permanentSinks []contract.EventSink
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	monitoring     *observability.MonitoringManager
	commands       chan board.PostMessageCommand
	rawEvents      chan event.DomainEvent
	domainEvents   chan event.DomainEvent
	sinkTimeout    time.Duration
}

func NewOrchestrator(log *slog.Logger, supervisor *workers.Supervisor,
	registry *Registry, monitoring *observability.MonitoringManager,
	cooldownTicks uint64, maxContentBytes, bufferSize int,
	sinkTimeout time.Duration) *Orchestrator {
	o := &Orchestrator{
		log:          log,
		supervisor:   supervisor,
		registry:     registry,
		monitoring:   monitoring,
		commands:     make(chan board.PostMessageCommand, bufferSize),
		rawEvents:    make(chan event.DomainEvent, bufferSize),
		domainEvents: make(chan event.DomainEvent, bufferSize),
		sinkTimeout:  sinkTimeout,
	}
	// The ledger notifies the pipeline synchronously for every accepted
	// record; delivery beyond this point is best-effort.
	o.ledger = board.NewCustomLedger(cooldownTicks, maxContentBytes, o.notifyAccepted)
	return o
}

// Ledger exposes the underlying ledger for read paths and tests.
func (o *Orchestrator) Ledger() *board.Ledger {
	return o.ledger
}

// notifyAccepted runs inside the ledger's accepted-submission notification.
// It must not call back into the ledger. The send never blocks: a full
// pipeline drops the notification and counts it, the record itself is
// already safely appended.
func (o *Orchestrator) notifyAccepted(record board.Record, index int) {
	evt := event.MessagePosted{
		ID:      uuid.New(),
		Author:  record.Sender,
		Content: record.Content,
		At:      record.Timestamp,
		Index:   index,
	}
	select {
	case o.rawEvents <- evt:
	default:
		o.monitoring.IncrEventsDropped()
		o.log.Warn("Raw event channel full, dropping notification", "index", index)
	}
}

// Post routes one submission through the single board worker and waits for
// its typed outcome. The caller supplies the logical timestamp; the
// orchestrator never reads a wall clock.
func (o *Orchestrator) Post(ctx context.Context, sender board.SenderID, content string, now uint64) (board.SubmitResult, error) {
	reply := make(chan board.PostReply, 1)
	cmd := board.PostMessageCommand{Sender: sender, Content: content, Now: now, Reply: reply}

	select {
	case <-ctx.Done():
		return board.SubmitResult{}, ctx.Err()
	case o.commands <- cmd:
	}

	select {
	case <-ctx.Done():
		return board.SubmitResult{}, ctx.Err()
	case r := <-reply:
		return r.Result, r.Err
	}
}

// ListAll returns the full board in append order, oldest first.
func (o *Orchestrator) ListAll() []board.Record {
	return o.ledger.ListAll()
}

// CooldownExpiry returns the tick at which the sender may submit again,
// or 0 if the sender never submitted.
func (o *Orchestrator) CooldownExpiry(sender board.SenderID) uint64 {
	return o.ledger.CooldownExpiry(sender)
}

func (o *Orchestrator) RegisterSubscriber(subscriberID string, sink contract.EventSink) {
	o.registry.Subscribe(subscriberID, sink)
}

func (o *Orchestrator) UnregisterSubscriber(subscriberID string) {
	o.registry.Unsubscribe(subscriberID)
}

// Add attaches permanent sinks (archive, index, timeline) that receive
// every reviewed message for the lifetime of the process.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// Start prepares all workers (board, review, fanout) and launches the
// supervisor. Heavy setup like the Aho-Corasick build happens before any
// lock is taken.
func (o *Orchestrator) Start(ctx context.Context) error {
	boardWorker := workers.NewBoardWorker(o.ledger, o.commands, o.monitoring, o.log)

	reviewWorker, err := o.prepareReview("flagged")
	if err != nil {
		return err
	}

	o.mu.Lock()
	fanoutWorker := workers.NewEventFanout(
		o.log,
		o.permanentSinks,
		o.registry,
		o.domainEvents,
		o.monitoring,
		o.sinkTimeout,
	)
	o.supervisor.Add(boardWorker, reviewWorker, fanoutWorker)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	go o.supervisor.Run(ctx)
	return nil
}

// prepareReview loads the flag terms and builds the Aho-Corasick automaton.
func (o *Orchestrator) prepareReview(path string) (contract.Worker, error) {
	loader := NewWordlistLoader(flaggedFolder)
	data, err := loader.LoadAll(path)
	if err != nil {
		return nil, err
	}

	o.log.Info(fmt.Sprintf("%d wordlist files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	o.log.Info(fmt.Sprintf("%d unique flag terms loaded", len(data.Words)))

	moderator, err := moderation.NewModerator(data.Words)
	if err != nil {
		return nil, err
	}

	return workers.NewReviewWorker(moderator, o.rawEvents, o.domainEvents, o.monitoring, o.log), nil
}

// Stop initiates a graceful shutdown of the orchestrator by canceling the
// supervision context. In-flight events still queued in the channels are
// dropped, the ledger itself is already consistent.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
