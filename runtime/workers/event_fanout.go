package workers

import (
	"board-lab/contract"
	"board-lab/domain/event"
	"board-lab/observability"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout broadcasts domain events to multiple in-process consumers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. EventFanout is not a message broker.
//
// It is intended for projections and side effects (archive, index, UI),
// not for the admission decision itself: the ledger has already accepted
// the record by the time an event reaches the fanout.
type EventFanout struct {
	log            *slog.Logger
	events         chan event.DomainEvent
	permanentSinks []contract.EventSink
	registry       contract.IRegistry
	monitoring     *observability.MonitoringManager
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger,
	permanentSinks []contract.EventSink,
	registry contract.IRegistry,
	events chan event.DomainEvent,
	monitoring *observability.MonitoringManager,
	sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		events:         events,
		permanentSinks: permanentSinks,
		registry:       registry,
		monitoring:     monitoring,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return ctx.Err()
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout delivers one event to every permanent sink and every registered
// subscriber. A slow or broken sink only loses its own copy: the timeout
// bounds each delivery and errors are counted, not propagated.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	subscriberSinks := w.registry.Sinks()
	sinks := make([]contract.EventSink, 0, len(w.permanentSinks)+len(subscriberSinks))
	sinks = append(sinks, w.permanentSinks...)
	sinks = append(sinks, subscriberSinks...)
	for _, sink := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.monitoring.IncrSinkErrors()
			w.log.Warn("Sink failed to consume event", "error", err)
		}
		cancel()
	}
}
