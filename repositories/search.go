//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_repository.go -package=mocks
package repositories

import (
	"board-lab/domain/event"
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"
)

type ISearchRepository interface {
	Index(msg event.ReviewedMessage) error
	Search(ctx context.Context, terms string) ([]SearchHit, error)
}

// SearchRepository maintains a Bluge full-text index over the board.
// Like the archive, it is purely derived data built from the event stream.
type SearchRepository struct {
	writer *bluge.Writer
	log    *slog.Logger
	limit  int
}

func NewSearchRepository(writer *bluge.Writer, log *slog.Logger, limit int) SearchRepository {
	return SearchRepository{writer: writer, log: log, limit: limit}
}

type SearchHit struct {
	DocID   string
	Sender  string
	Content string
}

// Index upserts one reviewed message into the full-text index, keyed by the
// event UUID so replays overwrite instead of duplicating.
func (r SearchRepository) Index(msg event.ReviewedMessage) error {
	doc := bluge.NewDocument(msg.ID.String()).
		AddField(bluge.NewTextField("content", msg.Content).StoreValue()).
		AddField(bluge.NewKeywordField("sender", msg.Author.String()).StoreValue()).
		AddField(bluge.NewNumericField("at", float64(msg.At)))
	return r.writer.Update(doc.ID(), doc)
}

// Search runs a match query on message contents and returns up to the
// configured number of hits.
func (r SearchRepository) Search(ctx context.Context, terms string) ([]SearchHit, error) {
	reader, err := r.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewMatchQuery(terms).SetField("content")
	request := bluge.NewTopNSearch(r.limit, query)
	dmi, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	for {
		match, err := dmi.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		var hit SearchHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.DocID = string(value)
			case "sender":
				hit.Sender = string(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
