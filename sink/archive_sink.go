package sink

import (
	"board-lab/domain/event"
	"board-lab/repositories"
	"context"
	"fmt"
	"log/slog"
)

// ArchiveSink persists every reviewed message into the badger archive.
type ArchiveSink struct {
	repository repositories.IArchiveRepository
	log        *slog.Logger
}

func NewArchiveSink(repository repositories.IArchiveRepository, log *slog.Logger) ArchiveSink {
	return ArchiveSink{repository: repository, log: log}
}

func (d ArchiveSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.ReviewedMessage:
		return d.repository.StoreRecord(toArchivedRecord(evt))
	default:
		d.log.Debug(fmt.Sprintf("Not implemented event : %v", evt))
		return nil
	}
}

func toArchivedRecord(evt event.ReviewedMessage) repositories.ArchivedRecord {
	return repositories.ArchivedRecord{
		ID:           evt.ID,
		Sender:       evt.Author.String(),
		Content:      evt.Content,
		At:           evt.At,
		Index:        evt.Index,
		Language:     evt.Language,
		FlaggedTerms: evt.FlaggedTerms,
	}
}
