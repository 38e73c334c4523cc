//go:generate go run go.uber.org/mock/mockgen -source=archive.go -destination=../mocks/mock_archive_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IArchiveRepository interface {
	StoreRecord(entry ArchivedRecord) error
	GetRecords(cursor *string) ([]ArchivedRecord, *string, error)
}

// ArchiveRepository persists accepted records in BadgerDB. It is a
// subscriber-side archive: the in-memory ledger stays the source of truth
// and never depends on this storage.
type ArchiveRepository struct {
	db           *badger.DB
	log          *slog.Logger
	limitRecords *int
}

func NewArchiveRepository(db *badger.DB, log *slog.Logger, limitRecords *int) ArchiveRepository {
	return ArchiveRepository{db: db, log: log, limitRecords: limitRecords}
}

// ArchivedRecord is the on-disk form of one accepted record plus the
// review annotations. Values are JSON encoded.
type ArchivedRecord struct {
	ID           uuid.UUID `json:"id"`
	Sender       string    `json:"sender"`
	Content      string    `json:"content"`
	At           uint64    `json:"at"`
	Index        int       `json:"index"`
	Language     string    `json:"language,omitempty"`
	FlaggedTerms []string  `json:"flagged_terms,omitempty"`
}

// StoreRecord persists a record in BadgerDB.
// The key is formatted as "board:{index_padded}:{uuid}" to:
//  1. Ensure log ordering using 20-digit zero padding (lexicographical order).
//  2. Keep keys unique via the event UUID even if the same index is
//     re-archived after a replay.
func (a ArchiveRepository) StoreRecord(entry ArchivedRecord) error {
	key := fmt.Sprintf("board:%020d:%s", entry.Index, entry.ID)
	bytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetRecords retrieves archived records newest first using a reverse prefix
// scan. Thanks to the padded index in the key, records are naturally sorted
// in log order. It stops collecting once the configured limitRecords is
// reached and hands back a cursor for the next page.
func (a ArchiveRepository) GetRecords(cursor *string) ([]ArchivedRecord, *string, error) {
	var rawRecords [][]byte
	var lastKey string
	err := a.db.View(func(txn *badger.Txn) error {
		prefixStr := "board:"
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start past the highest possible index, then walk backwards.
			seekKey = append(prefix, []byte("99999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if a.limitRecords != nil && len(rawRecords) == *a.limitRecords {
				a.log.Debug(fmt.Sprintf("Maximum of %d records reached", *a.limitRecords))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawRecords = append(rawRecords, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var entries []ArchivedRecord
	for _, b := range rawRecords {
		var entry ArchivedRecord
		if err = json.Unmarshal(b, &entry); err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}
	return entries, &lastKey, nil
}
