package workers

import (
	"board-lab/contract"
	"board-lab/domain/event"
	"board-lab/moderation"
	"board-lab/observability"
	"context"
	"log/slog"

	"github.com/abadojack/whatlanggo"
)

var _ contract.Worker = (*ReviewWorker)(nil)

// ReviewWorker annotates accepted messages before fanout: language
// detection and flag-term matching. It never alters the content itself;
// the ledger already appended it verbatim.
type ReviewWorker struct {
	moderator  moderation.Moderator
	rawEvents  chan event.DomainEvent
	events     chan event.DomainEvent
	monitoring *observability.MonitoringManager
	log        *slog.Logger
}

func NewReviewWorker(moderator moderation.Moderator,
	rawEvents, events chan event.DomainEvent,
	monitoring *observability.MonitoringManager, log *slog.Logger) *ReviewWorker {
	return &ReviewWorker{
		moderator:  moderator,
		rawEvents:  rawEvents,
		events:     events,
		monitoring: monitoring,
		log:        log,
	}
}

func (w *ReviewWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case e, ok := <-w.rawEvents:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			if posted, ok := e.(event.MessagePosted); ok {
				select {
				case <-ctx.Done():
					w.log.Debug("Stopping worker")
					return ctx.Err()
				case w.events <- w.toReviewedEvent(posted):
				}
			}
		}
	}
}

func (w *ReviewWorker) toReviewedEvent(evt event.MessagePosted) event.ReviewedMessage {
	info := whatlanggo.Detect(evt.Content)
	langCode := info.Lang.Iso6391()

	flagged := w.moderator.Flag(evt.Content)
	if len(flagged) > 0 {
		w.monitoring.AddFlaggedTerms(len(flagged))
		w.log.Warn("Flagged terms detected",
			"terms", flagged,
			"lang", langCode,
			"author", evt.Author.String(),
			"index", evt.Index)
	}

	return event.ReviewedMessage{
		ID:           evt.ID,
		Author:       evt.Author,
		Content:      evt.Content,
		At:           evt.At,
		Index:        evt.Index,
		Language:     langCode,
		FlaggedTerms: flagged,
	}
}
