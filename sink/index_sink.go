package sink

import (
	"board-lab/domain/event"
	"board-lab/repositories"
	"context"
	"log/slog"
)

// IndexSink feeds the full-text index from the event stream.
type IndexSink struct {
	repository repositories.ISearchRepository
	log        *slog.Logger
}

func NewIndexSink(repository repositories.ISearchRepository, log *slog.Logger) IndexSink {
	return IndexSink{repository: repository, log: log}
}

func (s IndexSink) Consume(_ context.Context, e event.DomainEvent) error {
	if evt, ok := e.(event.ReviewedMessage); ok {
		return s.repository.Index(evt)
	}
	return nil
}
