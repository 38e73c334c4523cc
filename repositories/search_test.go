package repositories

import (
	"board-lab/domain/board"
	"board-lab/domain/event"
	"context"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func openTestBluge(t *testing.T) *bluge.Writer {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return writer
}

func TestSearchRepository_IndexAndSearch(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	writer := openTestBluge(t)
	repository := NewSearchRepository(writer, log, 10)

	alice, err := board.ParseSenderID("0xa1")
	req.NoError(err)
	bob, err := board.ParseSenderID("0xb2")
	req.NoError(err)

	id := uuid.New()
	req.NoError(repository.Index(event.ReviewedMessage{
		ID:      id,
		Author:  alice,
		Content: "the weather is lovely today",
		At:      1,
	}))
	req.NoError(repository.Index(event.ReviewedMessage{
		ID:      uuid.New(),
		Author:  bob,
		Content: "ledger maintenance announcement",
		At:      2,
	}))

	// When searching on message contents
	hits, err := repository.Search(context.Background(), "weather")
	req.NoError(err)

	// Then only the matching message comes back with its stored fields
	req.Len(hits, 1)
	req.Equal(id.String(), hits[0].DocID)
	req.Equal(alice.String(), hits[0].Sender)
	req.Equal("the weather is lovely today", hits[0].Content)
}

func TestSearchRepository_ReindexSameIDOverwrites(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	writer := openTestBluge(t)
	repository := NewSearchRepository(writer, log, 10)

	alice, err := board.ParseSenderID("0xa1")
	req.NoError(err)

	id := uuid.New()
	msg := event.ReviewedMessage{ID: id, Author: alice, Content: "replayed message", At: 3}

	// Indexing the same event twice must not duplicate the document
	req.NoError(repository.Index(msg))
	req.NoError(repository.Index(msg))

	hits, err := repository.Search(context.Background(), "replayed")
	req.NoError(err)
	req.Len(hits, 1)
}

func TestSearchRepository_NoMatchReturnsEmpty(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	writer := openTestBluge(t)
	repository := NewSearchRepository(writer, log, 10)

	hits, err := repository.Search(context.Background(), "nothing indexed yet")
	req.NoError(err)
	req.Empty(hits)
}
